package core

// DisplayState is how a slot is presented in the day list
type DisplayState string

const (
	StateNoAlarm      DisplayState = "no_alarm"
	StateRinging      DisplayState = "ringing"     // active slot, waiting for confirmation
	StatePastActive   DisplayState = "past_active" // active slot, confirmed
	StatePastMuted    DisplayState = "past_muted"  // active slot, muted
	StateFutureActive DisplayState = "future_active"
	StateFutureMuted  DisplayState = "future_muted"
)

// IsPast reports whether the state belongs to the active slot
func (s DisplayState) IsPast() bool {
	return s == StateRinging || s == StatePastActive || s == StatePastMuted
}

// ScheduleEntry pairs a slot with its display state
type ScheduleEntry struct {
	State DisplayState `json:"state"`
	Alarm Alarm        `json:"alarm"`
}

// DisplayState derives the state of the slot at position i
func (s *WeeklySchedule) DisplayState(i int) DisplayState {
	alarm := s.records[i]
	if !alarm.IsConfigured {
		return StateNoAlarm
	}

	if i == 0 {
		switch {
		case alarm.IsMuted:
			return StatePastMuted
		case alarm.IsAwakeConfirmed:
			return StatePastActive
		default:
			return StateRinging
		}
	}

	if alarm.IsMuted {
		return StateFutureMuted
	}
	return StateFutureActive
}

// Snapshot returns every slot in schedule order with its display state
func (s *WeeklySchedule) Snapshot() []ScheduleEntry {
	entries := make([]ScheduleEntry, DaysInWeek)
	for i := range s.records {
		entries[i] = ScheduleEntry{State: s.DisplayState(i), Alarm: s.records[i]}
	}
	return entries
}
