package timer

import "github.com/fixkme/appstorm/mlog"

// Module 把Registry挂到app生命周期上
type Module struct {
	name string
	r    *Registry
}

func NewModule(name string, r *Registry) *Module {
	if name == "" {
		name = r.Name()
	}
	return &Module{name: name, r: r}
}

func (m *Module) OnInit() error {
	mlog.Infof("module %s init, timer %s interval %dms", m.name, m.r.Name(), m.r.Interval())
	return nil
}

func (m *Module) Run() {
	m.r.Run(nil)
}

// Destroy 停止驱动并等待循环退出
func (m *Module) Destroy() {
	m.r.Stop()
	if m.r.started.Load() {
		<-m.r.Done()
	}
	mlog.Infof("module %s destroyed, %d timers dropped", m.name, m.r.Len())
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) Registry() *Registry {
	return m.r
}
