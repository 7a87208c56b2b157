package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModule struct {
	name    string
	initErr error
	log     *[]string
	mu      *sync.Mutex
	quit    chan struct{}
}

func newFake(name string, log *[]string, mu *sync.Mutex) *fakeModule {
	return &fakeModule{name: name, log: log, mu: mu, quit: make(chan struct{})}
}

func (m *fakeModule) record(s string) {
	m.mu.Lock()
	*m.log = append(*m.log, s)
	m.mu.Unlock()
}

func (m *fakeModule) OnInit() error {
	m.record("init " + m.name)
	return m.initErr
}

func (m *fakeModule) Run() {
	<-m.quit
}

func (m *fakeModule) Destroy() {
	m.record("destroy " + m.name)
	close(m.quit)
}

func (m *fakeModule) Name() string {
	return m.name
}

func TestStartShutdown(t *testing.T) {
	var log []string
	mu := &sync.Mutex{}
	a := NewApp()
	require.NoError(t, a.Start(newFake("a", &log, mu), newFake("b", &log, mu)))
	assert.Equal(t, int32(AppStateRun), a.GetState())
	assert.ErrorIs(t, a.Start(newFake("c", &log, mu)), ErrStartTwice)

	a.Shutdown()
	assert.Equal(t, int32(AppStateNone), a.GetState())
	assert.Equal(t, []string{"init a", "init b", "destroy b", "destroy a"}, log)
}

func TestInitFailure(t *testing.T) {
	var log []string
	mu := &sync.Mutex{}
	bad := newFake("bad", &log, mu)
	bad.initErr = errors.New("no config")

	a := NewApp()
	err := a.Start(newFake("a", &log, mu), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module bad init error")
	assert.Equal(t, []string{"init a", "init bad", "destroy a"}, log)
	assert.Equal(t, int32(AppStateNone), a.GetState())
}

func TestRunStop(t *testing.T) {
	var log []string
	mu := &sync.Mutex{}
	a := NewApp()
	done := make(chan error, 1)
	go func() {
		done <- a.Run(newFake("a", &log, mu))
	}()

	require.Eventually(t, func() bool { return a.GetState() == AppStateRun }, time.Second, 5*time.Millisecond)
	a.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Equal(t, int32(AppStateNone), a.GetState())
}
