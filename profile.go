package main

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// Adapted from https://github.com/zeromicro/go-zero
// @copyright original authors.

const (
	// DefaultMemProfileRate is the default memory profiling rate.
	// See also http://golang.org/pkg/runtime/#pkg-variables
	DefaultMemProfileRate = 4096

	timeFormat       = "20060102_150405"
	goroutineProfile = "goroutine"
	debugLevel       = 2
)

// profile starts one kind of profiling into f and returns its stop func.
type profile struct {
	kind  string
	start func(f *os.File) (stop func(), err error)
}

func lookupProfile(name string, f *os.File) {
	if p := pprof.Lookup(name); p != nil {
		p.WriteTo(f, 0)
	}
}

var profiles = []profile{
	{"cpu", func(f *os.File) (func(), error) {
		if err := pprof.StartCPUProfile(f); err != nil {
			return nil, err
		}
		return pprof.StopCPUProfile, nil
	}},
	{"mem", func(f *os.File) (func(), error) {
		old := runtime.MemProfileRate
		runtime.MemProfileRate = DefaultMemProfileRate
		return func() {
			lookupProfile("heap", f)
			runtime.MemProfileRate = old
		}, nil
	}},
	{"mutex", func(f *os.File) (func(), error) {
		runtime.SetMutexProfileFraction(1)
		return func() {
			lookupProfile("mutex", f)
			runtime.SetMutexProfileFraction(0)
		}, nil
	}},
	{"block", func(f *os.File) (func(), error) {
		runtime.SetBlockProfileRate(1)
		return func() {
			lookupProfile("block", f)
			runtime.SetBlockProfileRate(0)
		}, nil
	}},
	{"trace", func(f *os.File) (func(), error) {
		if err := trace.Start(f); err != nil {
			return nil, err
		}
		return trace.Stop, nil
	}},
	{"threadcreate", func(f *os.File) (func(), error) {
		return func() { lookupProfile("threadcreate", f) }, nil
	}},
}

// Profiler is one profiling session writing every profile kind under
// dataDir.
type Profiler struct {
	dataDir string
	closers []func()
	stopped uint32
}

// StartProfiler starts every profile kind. The caller must Stop it to
// flush the files.
func StartProfiler(dataDir string) *Profiler {
	p := &Profiler{dataDir: dataDir}
	for _, prof := range profiles {
		fn := p.createDumpFile(prof.kind)
		f, err := os.Create(fn)
		if err != nil {
			glog.Errorf("pprof: could not create %s profile %q: %v", prof.kind, fn, err)
			continue
		}
		stop, err := prof.start(f)
		if err != nil {
			glog.Errorf("pprof: could not start %s profile: %v", prof.kind, err)
			f.Close()
			continue
		}
		glog.Infof("pprof: %s profiling enabled, %s", prof.kind, fn)
		kind := prof.kind
		p.closers = append(p.closers, func() {
			stop()
			f.Close()
			glog.Infof("pprof: %s profiling disabled, %s", kind, fn)
		})
	}
	return p
}

// Stop stops the profiles and flushes any unwritten data. Calling it again
// is a no-op.
func (p *Profiler) Stop() {
	if !atomic.CompareAndSwapUint32(&p.stopped, 0, 1) {
		return
	}
	for _, closer := range p.closers {
		closer()
	}
}

func (p *Profiler) createDumpFile(kind string) string {
	return path.Join(p.dataDir, fmt.Sprintf("%s-%s.pprof", kind, time.Now().Format(timeFormat)))
}

func dumpGoroutines(dataDir string) {
	dumpFile := path.Join(dataDir, fmt.Sprintf("goroutines-%s.dump", time.Now().Format(timeFormat)))
	glog.Infof("dumping goroutine profile to %s", dumpFile)
	f, err := os.Create(dumpFile)
	if err != nil {
		glog.Errorf("failed to dump goroutine profile, error: %v", err)
		return
	}
	defer f.Close()
	if err := pprof.Lookup(goroutineProfile).WriteTo(f, debugLevel); err != nil {
		glog.Errorf("failed to write goroutine profile to %s, error: %v", dumpFile, err)
	}
}
