package logic

// Pattern generates the internal buzzer level, one call per tick.
// It is owned by the tick domain and is not safe for concurrent use.
type Pattern struct {
	alarmTicks uint32
	beepTicks  uint32
	on         bool
}

// NewPattern creates a generator using the alarm and beep periods from cfg.
func NewPattern(cfg Config) *Pattern {
	return &Pattern{alarmTicks: cfg.AlarmTicks, beepTicks: cfg.BeepTicks}
}

// Next returns the buzzer level for the current tick given the intent and
// the number of ticks since the intent's reference tick.
func (p *Pattern) Next(intent SounderIntent, elapsed uint32) bool {
	switch intent {
	case SounderPulsing:
		p.on = !p.on
	case SounderAlarm:
		p.on = elapsed < p.alarmTicks
	case SounderBeep:
		p.on = elapsed < p.beepTicks
	default:
		p.on = false
	}
	return p.on
}

// On returns the level produced by the last call to Next.
func (p *Pattern) On() bool {
	return p.on
}
