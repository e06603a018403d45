package script

// Estimated heap held by a maker context and by each of its values.
const (
	contextBytes = 512
	valueBytes   = 96

	makerHeadroom = 4096
)

// Maker spawns contexts over time and draws its children once in each.
type Maker struct {
	Container

	count, minCount, maxCount Value
	maxDuration, chance, freq Value
	chanceKey                 string
	init                      valueList

	contexts   []*MakerContext
	lastCreate int64
	largest    int
}

func NewMaker(parent Context) *Maker {
	return &Maker{Container: *newContainer("maker", plainAdapter, NewChildContext(parent))}
}

// Contexts is the number of live contexts.
func (m *Maker) Contexts() int { return len(m.contexts) }

func (m *Maker) Draw(parent Context) {
	m.prepare(parent)
	m.drawContexts()
}

func (m *Maker) drawContexts() {
	m.checkContexts()
	for _, mc := range m.contexts {
		mc.SetPosition(m.pos)
		m.pos.Evaluate(mc)
		m.strip.UpdatePosition(m.pos, mc)
		mc.SetStrip(m.strip)
		mc.BeginStep()
		for _, child := range m.children {
			child.UpdatePosition(m.pos, mc)
			mc.SetElement(child)
			child.Draw(mc)
		}
		mc.EndStep()
	}
}

func (m *Maker) intOf(v Value, def int) int {
	if v == nil {
		return def
	}
	return v.Int(m.ctx, def)
}

func (m *Maker) checkContexts() {
	now := m.ctx.Env().now()
	minCount := m.intOf(m.minCount, m.intOf(m.count, 0))
	maxCount := m.intOf(m.maxCount, m.intOf(m.count, 1))
	maxDuration := m.intOf(m.maxDuration, 0)

	live := m.contexts[:0]
	for _, mc := range m.contexts {
		if !mc.complete(maxDuration, now) {
			live = append(live, mc)
		}
	}
	for i := len(live); i < len(m.contexts); i++ {
		m.contexts[i] = nil
	}
	m.contexts = live

	if maxCount > len(m.contexts) && m.shouldCreate(now) {
		m.create(now)
	}
	if over := len(m.contexts) - maxCount; over > 0 && maxCount >= 0 {
		m.contexts = append(m.contexts[:0], m.contexts[over:]...)
	}
	for len(m.contexts) < minCount {
		if !m.create(now) {
			break
		}
	}
}

func (m *Maker) shouldCreate(now int64) bool {
	if m.chance != nil {
		if chance := m.chance.Float(m.ctx, 0); chance != 0 {
			perStep := 100 * chance * float64(m.ctx.Step().SincePrev) / 1000
			return perStep > float64(m.ctx.Env().intn(100))
		}
	}
	if freq := m.intOf(m.freq, 0); freq > 0 {
		return m.lastCreate+int64(freq) < now
	}
	return false
}

func (m *Maker) used() int {
	n := 0
	for _, mc := range m.contexts {
		n += mc.size()
	}
	return n
}

// create spawns a context unless it would exceed the memory budget.
func (m *Maker) create(now int64) bool {
	env := m.ctx.Env()
	if env.MemoryBudget > 0 && m.used()+m.largest+makerHeadroom > env.MemoryBudget {
		env.Log.Debug().Int("contexts", len(m.contexts)).Msg("maker over memory budget")
		return false
	}
	mc := newMakerContext(m.ctx)
	mc.initialize(&m.init)
	m.contexts = append(m.contexts, mc)
	m.lastCreate = now
	if size := mc.size(); size > m.largest {
		m.largest = size
	}
	return true
}

func (m *Maker) fromJSON(obj map[string]any) {
	m.Container.fromJSON(obj)
	m.count = prop(obj, "count")
	m.minCount = prop(obj, "min-count")
	m.maxCount = prop(obj, "max-count")
	m.maxDuration = prop(obj, "max-duration")
	m.chanceKey = "chance-per-second"
	if m.chance = prop(obj, m.chanceKey); m.chance == nil {
		if m.chance = prop(obj, "chance"); m.chance != nil {
			m.chanceKey = "chance"
		}
	}
	m.freq = prop(obj, "frequency-msecs")
	if tmpl, ok := obj["init"].(map[string]any); ok {
		for _, name := range sortedKeys(tmpl) {
			m.init.Set(name, ParseValueIn(tmpl[name], tmpl))
		}
	}
}

func (m *Maker) JSON() map[string]any {
	out := m.Container.JSON()
	setProp(out, "count", m.count)
	setProp(out, "min-count", m.minCount)
	setProp(out, "max-count", m.maxCount)
	setProp(out, "max-duration", m.maxDuration)
	setProp(out, m.chanceKey, m.chance)
	setProp(out, "frequency-msecs", m.freq)
	if m.init.Len() > 0 {
		tmpl := map[string]any{}
		m.init.Each(func(name string, v Value) { tmpl[name] = v.JSON() })
		out["init"] = tmpl
	}
	return out
}
