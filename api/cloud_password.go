package api

import (
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

const (
	emailUnconfirmedPrefix = "EMAIL_UNCONFIRMED_"
	outdatedClientMessage  = "Please update client to continue"
)

type CloudPasswordState struct {
	HasPassword        bool
	HasRecovery        bool
	NotEmptyPassport   bool
	Hint               string
	UnconfirmedPattern string
	PendingResetDate   int32

	ServerError    string
	OutdatedClient bool
}

func passwordStateFromTL(s *tl.PasswordState) CloudPasswordState {
	out := CloudPasswordState{
		HasPassword:      s.HasPassword,
		HasRecovery:      s.HasRecoveryEmailAddress,
		NotEmptyPassport: s.HasPassportData,
		Hint:             s.PasswordHint,
		PendingResetDate: s.PendingResetDate,
	}
	if info := s.RecoveryEmailAddressCodeInfo; info != nil {
		out.UnconfirmedPattern = info.EmailAddressPattern
	}
	return out
}

func passwordStateEq(a, b CloudPasswordState) bool { return a == b }

// ResetResult is the answer to ResetPassword. RetryDate is set when the
// server declined the reset; the request may be repeated after it.
type ResetResult struct {
	RetryDate int32
}

// CloudPassword mirrors the two-step verification state. Before the session
// is authorized it uses the authentication variants of the requests.
type CloudPassword struct {
	sender     rpc.ISender
	authorized bool
	requesting bool

	state event.Value[CloudPasswordState]
}

func NewCloudPassword(sender rpc.ISender) *CloudPassword {
	return &CloudPassword{sender: sender, authorized: true}
}

// NewLoginCloudPassword is used on the login screen, before authorization.
func NewLoginCloudPassword(sender rpc.ISender) *CloudPassword {
	return &CloudPassword{sender: sender}
}

// State replays the last known state to new subscribers. It has no value
// until the first successful Reload or Apply.
func (p *CloudPassword) State() *event.Value[CloudPasswordState] { return &p.state }

func (p *CloudPassword) Reload() {
	if p.requesting {
		return
	}
	p.requesting = true
	p.sender.Send(&tl.GetPasswordState{}, rpc.Expect(func(s *tl.PasswordState) {
		p.requesting = false
		p.Apply(s)
	}, p.reloadFailed), p.reloadFailed)
}

func (p *CloudPassword) reloadFailed(e *tl.Error) {
	p.requesting = false
	glog.Warningf("cloud password: reload: %v", e)
	next := p.state.Current()
	next.ServerError = e.Message
	next.OutdatedClient = e.Code == 400 && e.Message == outdatedClientMessage
	if p.state.SetIfChanged(next, passwordStateEq) {
		fired("cloud_password")
	}
}

// Apply stores a state the server sent.
func (p *CloudPassword) Apply(s *tl.PasswordState) {
	next := passwordStateFromTL(s)
	if p.state.SetIfChanged(next, passwordStateEq) {
		glog.V(3).Infof("cloud password: has=%v recovery=%v pending_reset=%d",
			next.HasPassword, next.HasRecovery, next.PendingResetDate)
		fired("cloud_password")
	}
}

// ClearUnconfirmedPassword drops a password that waits for email
// confirmation. An empty setPassword with a recovery address does that.
func (p *CloudPassword) ClearUnconfirmedPassword() {
	p.sender.Send(&tl.SetPassword{SetRecoveryEmailAddress: true},
		rpc.Expect(p.Apply, func(*tl.Error) { p.Reload() }),
		func(*tl.Error) { p.Reload() })
}

// passwordError maps a remote failure to a PasswordError.
func passwordError(e *tl.Error) *PasswordError {
	out := &PasswordError{Kind: PasswordUnknown, Cause: e}
	switch {
	case strings.HasPrefix(e.Message, emailUnconfirmedPrefix):
		n, _ := strconv.Atoi(strings.TrimPrefix(e.Message, emailUnconfirmedPrefix))
		out.Kind, out.CodeLength = PasswordEmailUnconfirmed, n
	case e.Message == "PASSWORD_HASH_INVALID":
		out.Kind = PasswordInvalid
	case rpc.Classify(e) == rpc.KindFlood:
		out.Kind = PasswordFlood
		if d, ok := rpc.RetryAfter(e); ok {
			out.RetryAfter = int(d.Seconds())
		}
	}
	return out
}

func (p *CloudPassword) failTo(done func(error)) rpc.FailFunc {
	return func(e *tl.Error) {
		if done != nil {
			done(passwordError(e))
		}
	}
}

func succeed(done func(error)) {
	if done != nil {
		done(nil)
	}
}

// Set changes the password. When a recovery email was given and needs
// confirmation, done gets a PasswordEmailUnconfirmed error carrying the code
// length while the state already shows the unconfirmed pattern.
func (p *CloudPassword) Set(oldPassword, newPassword, hint string, hasRecoveryEmail bool, recoveryEmail string, done func(error)) {
	fail := p.failTo(done)
	p.sender.Send(&tl.SetPassword{
		OldPassword:             oldPassword,
		NewPassword:             newPassword,
		NewHint:                 hint,
		SetRecoveryEmailAddress: hasRecoveryEmail,
		NewRecoveryEmailAddress: recoveryEmail,
	}, rpc.Expect(func(s *tl.PasswordState) {
		p.Apply(s)
		if info := s.RecoveryEmailAddressCodeInfo; info != nil && info.Length > 0 {
			fail(&tl.Error{Code: 400, Message: emailUnconfirmedPrefix + strconv.Itoa(int(info.Length))})
			return
		}
		succeed(done)
	}, fail), fail)
}

// Check verifies password without changing anything.
func (p *CloudPassword) Check(password string, done func(error)) {
	fail := p.failTo(done)
	ok := func(tl.Object) { succeed(done) }
	if p.authorized {
		p.sender.Send(&tl.GetRecoveryEmailAddress{Password: password}, ok, fail)
		return
	}
	p.sender.Send(&tl.CheckAuthenticationPassword{Password: password}, ok, fail)
}

// ConfirmEmail sends the code from the confirmation email.
func (p *CloudPassword) ConfirmEmail(code string, done func(error)) {
	fail := p.failTo(done)
	p.sender.Send(&tl.CheckRecoveryEmailAddressCode{Code: code}, rpc.Expect(func(s *tl.PasswordState) {
		p.Apply(s)
		succeed(done)
	}, fail), fail)
}

// CheckRecoveryCode verifies a password recovery code without using it.
func (p *CloudPassword) CheckRecoveryCode(code string, done func(error)) {
	fail := p.failTo(done)
	ok := func(tl.Object) { succeed(done) }
	if p.authorized {
		p.sender.Send(&tl.CheckRecoveryEmailAddressCode{Code: code}, ok, fail)
		return
	}
	p.sender.Send(&tl.CheckAuthenticationPasswordRecoveryCode{RecoveryCode: code}, ok, fail)
}

func (p *CloudPassword) ResendEmailCode(done func(error)) {
	fail := p.failTo(done)
	p.sender.Send(&tl.ResendRecoveryEmailAddressCode{}, rpc.Expect(func(s *tl.PasswordState) {
		p.Apply(s)
		succeed(done)
	}, fail), fail)
}

// RequestRecovery asks for a recovery code. The pattern of the address it
// was sent to is known only when authorized.
func (p *CloudPassword) RequestRecovery(done func(pattern string, err error)) {
	fail := func(e *tl.Error) {
		if done != nil {
			done("", passwordError(e))
		}
	}
	if !p.authorized {
		p.sender.Send(&tl.RequestAuthenticationPasswordRecovery{}, func(tl.Object) {
			if done != nil {
				done("", nil)
			}
		}, fail)
		return
	}
	p.sender.Send(&tl.RequestPasswordRecovery{}, rpc.Expect(func(info *tl.EmailAddressAuthenticationCodeInfo) {
		if done != nil {
			done(info.EmailAddressPattern, nil)
		}
	}, fail), fail)
}

// Recover sets a new password using a recovery code.
func (p *CloudPassword) Recover(code, newPassword, hint string, done func(error)) {
	fail := p.failTo(done)
	if !p.authorized {
		p.sender.Send(&tl.RecoverAuthenticationPassword{
			RecoveryCode: code, NewPassword: newPassword, NewHint: hint,
		}, func(tl.Object) { succeed(done) }, fail)
		return
	}
	p.sender.Send(&tl.RecoverPassword{
		RecoveryCode: code, NewPassword: newPassword, NewHint: hint,
	}, rpc.Expect(func(s *tl.PasswordState) {
		p.Apply(s)
		succeed(done)
	}, fail), fail)
}

// ResetPassword asks to drop the password without recovery. An immediate
// reset reloads the state; a pending one updates PendingResetDate.
func (p *CloudPassword) ResetPassword(done func(ResetResult, error)) {
	finish := func(r ResetResult, err error) {
		if done != nil {
			done(r, err)
		}
	}
	fail := func(e *tl.Error) { finish(ResetResult{}, passwordError(e)) }
	p.sender.Send(&tl.ResetPassword{}, rpc.Expect(func(r *tl.ResetPasswordResult) {
		switch r.Type {
		case tl.ResetPasswordResultOk:
			p.Reload()
		case tl.ResetPasswordResultPending:
			if !p.state.Has() {
				p.Reload()
				break
			}
			next := p.state.Current()
			next.PendingResetDate = r.PendingResetDate
			if p.state.SetIfChanged(next, passwordStateEq) {
				fired("cloud_password")
			}
		case tl.ResetPasswordResultDeclined:
			finish(ResetResult{RetryDate: r.RetryDate}, nil)
			return
		}
		finish(ResetResult{}, nil)
	}, fail), fail)
}

func (p *CloudPassword) CancelResetPassword(done func(error)) {
	p.sender.Send(&tl.CancelPasswordReset{}, func(tl.Object) {
		p.Reload()
		succeed(done)
	}, p.failTo(done))
}
