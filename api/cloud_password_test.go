package api

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqy/minisync/tl"
)

func TestCloudPasswordApplyFiresOnce(t *testing.T) {
	f := newFixture(t)
	p := NewCloudPassword(f.sender)
	var seen []CloudPasswordState
	p.State().Subscribe(func(s CloudPasswordState) { seen = append(seen, s) })
	assert.Empty(t, seen)

	s := &tl.PasswordState{HasPassword: true, PasswordHint: "cat"}
	p.Apply(s)
	p.Apply(s)
	require.Len(t, seen, 1)
	assert.Equal(t, "cat", seen[0].Hint)

	p.Apply(&tl.PasswordState{HasPassword: true, PasswordHint: "dog"})
	assert.Len(t, seen, 2)

	late := 0
	p.State().Subscribe(func(CloudPasswordState) { late++ })
	assert.Equal(t, 1, late)
}

func TestCloudPasswordReload(t *testing.T) {
	f := newFixture(t)
	p := NewCloudPassword(f.sender)
	p.Reload()
	p.Reload()
	require.Len(t, f.rec.Of("getPasswordState"), 1)
	f.rec.Last().Reply(&tl.PasswordState{HasRecoveryEmailAddress: true})
	assert.True(t, p.State().Current().HasRecovery)

	p.Reload()
	f.rec.Last().Fail(&tl.Error{Code: 400, Message: outdatedClientMessage})
	cur := p.State().Current()
	assert.True(t, cur.OutdatedClient)
	assert.Equal(t, outdatedClientMessage, cur.ServerError)
	assert.True(t, cur.HasRecovery)

	fires := 0
	p.State().Changes(func(CloudPasswordState) { fires++ })
	p.Reload()
	f.rec.Last().Fail(&tl.Error{Code: 400, Message: outdatedClientMessage})
	assert.Zero(t, fires)

	p.Reload()
	f.rec.Last().Reply(&tl.PasswordState{HasRecoveryEmailAddress: true})
	assert.False(t, p.State().Current().OutdatedClient)
	assert.Equal(t, 1, fires)
}

func TestCloudPasswordSetEmailUnconfirmed(t *testing.T) {
	f := newFixture(t)
	p := NewCloudPassword(f.sender)
	var err error
	p.Set("", "secret", "hint", true, "me@example.com", func(e error) { err = e })
	set := f.rec.Last().Fn.(*tl.SetPassword)
	assert.Equal(t, "secret", set.NewPassword)
	assert.True(t, set.SetRecoveryEmailAddress)

	f.rec.Last().Reply(&tl.PasswordState{
		RecoveryEmailAddressCodeInfo: &tl.EmailAddressAuthenticationCodeInfo{EmailAddressPattern: "m*@example.com", Length: 6},
	})
	var pe *PasswordError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, PasswordEmailUnconfirmed, pe.Kind)
	assert.Equal(t, 6, pe.CodeLength)
	assert.Equal(t, "m*@example.com", p.State().Current().UnconfirmedPattern)
}

func TestCloudPasswordErrors(t *testing.T) {
	tests := []struct {
		e     *tl.Error
		kind  PasswordErrorKind
		retry int
		n     int
	}{
		{&tl.Error{Code: 400, Message: "PASSWORD_HASH_INVALID"}, PasswordInvalid, 0, 0},
		{&tl.Error{Code: 400, Message: "EMAIL_UNCONFIRMED_5"}, PasswordEmailUnconfirmed, 0, 5},
		{&tl.Error{Code: 429, Message: "Too Many Requests: retry after 30"}, PasswordFlood, 30, 0},
		{&tl.Error{Code: 400, Message: "SRP_ID_INVALID"}, PasswordUnknown, 0, 0},
	}
	for _, tt := range tests {
		got := passwordError(tt.e)
		assert.Equal(t, tt.kind, got.Kind, tt.e.Message)
		assert.Equal(t, tt.retry, got.RetryAfter, tt.e.Message)
		assert.Equal(t, tt.n, got.CodeLength, tt.e.Message)
		assert.Same(t, tt.e, got.Cause)
	}
}

func TestCloudPasswordLoginVariants(t *testing.T) {
	f := newFixture(t)
	p := NewLoginCloudPassword(f.sender)

	var err error = errors.New("unset")
	p.Check("pw", func(e error) { err = e })
	assert.Equal(t, "checkAuthenticationPassword", f.rec.Last().Fn.TypeName())
	f.rec.Last().Reply(&tl.Ok{})
	assert.NoError(t, err)

	p.CheckRecoveryCode("123", nil)
	assert.Equal(t, "checkAuthenticationPasswordRecoveryCode", f.rec.Last().Fn.TypeName())

	var pattern = "unset"
	p.RequestRecovery(func(s string, e error) { pattern, err = s, e })
	assert.Equal(t, "requestAuthenticationPasswordRecovery", f.rec.Last().Fn.TypeName())
	f.rec.Last().Reply(&tl.Ok{})
	assert.Equal(t, "", pattern)
	assert.NoError(t, err)

	p.Recover("123", "new", "", nil)
	assert.Equal(t, "recoverAuthenticationPassword", f.rec.Last().Fn.TypeName())

	a := NewCloudPassword(f.sender)
	a.Check("pw", nil)
	assert.Equal(t, "getRecoveryEmailAddress", f.rec.Last().Fn.TypeName())
	a.RequestRecovery(func(s string, e error) { pattern = s })
	f.rec.Last().Reply(&tl.EmailAddressAuthenticationCodeInfo{EmailAddressPattern: "a*@b.c"})
	assert.Equal(t, "a*@b.c", pattern)
}

func TestCloudPasswordReset(t *testing.T) {
	f := newFixture(t)
	p := NewCloudPassword(f.sender)
	p.Apply(&tl.PasswordState{HasPassword: true})

	var res ResetResult
	p.ResetPassword(func(r ResetResult, err error) {
		require.NoError(t, err)
		res = r
	})
	f.rec.Last().Reply(&tl.ResetPasswordResult{Type: tl.ResetPasswordResultPending, PendingResetDate: 1234})
	assert.Equal(t, int32(1234), p.State().Current().PendingResetDate)
	assert.Zero(t, res.RetryDate)

	p.ResetPassword(func(r ResetResult, err error) { res = r })
	f.rec.Last().Reply(&tl.ResetPasswordResult{Type: tl.ResetPasswordResultDeclined, RetryDate: 99})
	assert.Equal(t, int32(99), res.RetryDate)

	f.rec.Reset()
	p.ResetPassword(nil)
	f.rec.Last().Reply(&tl.ResetPasswordResult{Type: tl.ResetPasswordResultOk})
	require.Len(t, f.rec.Of("getPasswordState"), 1)
	f.rec.Last().Reply(&tl.PasswordState{HasPassword: true})

	f.rec.Reset()
	p.CancelResetPassword(nil)
	f.rec.Last().Reply(&tl.Ok{})
	assert.Len(t, f.rec.Of("getPasswordState"), 1)
}

func TestClearUnconfirmedPassword(t *testing.T) {
	f := newFixture(t)
	p := NewCloudPassword(f.sender)
	p.ClearUnconfirmedPassword()
	set := f.rec.Last().Fn.(*tl.SetPassword)
	assert.True(t, set.SetRecoveryEmailAddress)
	assert.Empty(t, set.NewRecoveryEmailAddress)

	f.rec.Last().Fail(&tl.Error{Code: 400, Message: "EMAIL_INVALID"})
	assert.Equal(t, "getPasswordState", f.rec.Last().Fn.TypeName())
}
