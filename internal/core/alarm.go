package core

import "fmt"

// Defaults for days that have never been configured
const (
	DefaultAlarmHour   = 9
	DefaultAlarmMinute = 0
)

// Alarm is the alarm slot of one weekday. The slot is never deleted:
// removing an alarm only clears IsConfigured so the week keeps 7 slots.
type Alarm struct {
	Day                Weekday            `json:"day"`
	IsConfigured       bool               `json:"is_configured"`
	IsMuted            bool               `json:"is_muted"`
	IsAwakeConfirmed   bool               `json:"is_awake_confirmed"` // the user has acknowledged waking up for this day
	FinalAlarmTime     AlarmTime          `json:"final_alarm_time"`
	DepartureTime      AlarmTime          `json:"departure_time"` // never earlier than FinalAlarmTime
	SnoozeState        SnoozeState        `json:"snooze_state"`
	SleepReminderState SleepReminderState `json:"sleep_reminder_state"`
}

// Interval is the span during which a day's alarm rings
type Interval struct {
	Start AlarmTime
	End   AlarmTime
}

// NewAlarm returns the disabled slot for day
func NewAlarm(day Weekday) Alarm {
	final := NewAlarmTime(day, DefaultAlarmHour, DefaultAlarmMinute)
	return Alarm{
		Day:                day,
		IsAwakeConfirmed:   true,
		FinalAlarmTime:     final,
		DepartureTime:      final,
		SnoozeState:        SnoozeOff(),
		SleepReminderState: SleepReminderOff(),
	}
}

// DefaultTemplate is the alarm used to prefill newly configured days
func DefaultTemplate() Alarm {
	template := NewAlarm(Monday)
	template.IsConfigured = true
	return template
}

// RingInterval returns when the alarm rings. Unconfigured days collapse to
// the start of their day so they still sort into place.
func (a Alarm) RingInterval() Interval {
	if !a.IsConfigured {
		start := StartOfDay(a.Day)
		return Interval{Start: start, End: start}
	}
	if a.IsMuted {
		return Interval{Start: a.FinalAlarmTime, End: a.FinalAlarmTime}
	}
	minutes, on := a.SnoozeState.Minutes()
	if !on {
		return Interval{Start: a.FinalAlarmTime, End: a.FinalAlarmTime}
	}
	return Interval{Start: a.FinalAlarmTime.AdvancedBy(0, -minutes), End: a.FinalAlarmTime}
}

// Configure copies the template's settings onto this day's slot.
// The template's own day is ignored: the final time keeps its hour and
// minute on a.Day and the departure keeps the template's commute length.
func (a *Alarm) Configure(template Alarm) {
	commute := 0
	if !template.DepartureTime.Before(template.FinalAlarmTime) {
		commute = template.FinalAlarmTime.MinutesUntil(template.DepartureTime)
	}

	final := NewAlarmTime(a.Day, template.FinalAlarmTime.Hour(), template.FinalAlarmTime.Minute())
	departure := final.AdvancedBy(0, commute)
	if departure.Before(final) {
		// commute ran past the end of the week
		departure = final.EndOfDay()
	}

	a.IsMuted = template.IsMuted
	a.FinalAlarmTime = final
	a.DepartureTime = departure
	a.SnoozeState = template.SnoozeState
	a.SleepReminderState = template.SleepReminderState
	a.IsConfigured = true
	a.IsAwakeConfirmed = true
}

// Remove disables the alarm; all other settings are kept
func (a *Alarm) Remove() {
	a.IsConfigured = false
}

// SetFinalAlarmTime moves the final alarm and pushes the departure forward if needed
func (a *Alarm) SetFinalAlarmTime(t AlarmTime) {
	a.mustBeConfigured("set final alarm time")
	a.FinalAlarmTime = t
	if a.DepartureTime.Before(t) {
		a.DepartureTime = t
	}
}

// SetDepartureTime sets the departure; it may not precede the final alarm
func (a *Alarm) SetDepartureTime(t AlarmTime) error {
	a.mustBeConfigured("set departure time")
	if t.Before(a.FinalAlarmTime) {
		return fmt.Errorf("%w: %s is before %s", ErrDepartureBeforeFinal, t, a.FinalAlarmTime)
	}
	a.DepartureTime = t
	return nil
}

// ToggleMuted flips the muted flag
func (a *Alarm) ToggleMuted() {
	a.mustBeConfigured("toggle muted")
	a.IsMuted = !a.IsMuted
}

// SetSnoozeState replaces the snooze window
func (a *Alarm) SetSnoozeState(s SnoozeState) {
	a.mustBeConfigured("set snooze state")
	a.SnoozeState = s
}

// SetSleepReminder replaces the sleep reminder
func (a *Alarm) SetSleepReminder(s SleepReminderState) {
	a.mustBeConfigured("set sleep reminder")
	a.SleepReminderState = s
}

// SetSleepReminderOn switches the reminder on at the default lead time, or off
func (a *Alarm) SetSleepReminderOn(on bool) {
	if on {
		a.SetSleepReminder(DefaultSleepReminder())
		return
	}
	a.SetSleepReminder(SleepReminderOff())
}

// ConfirmAwake acknowledges the alarm. Safe to call repeatedly.
func (a *Alarm) ConfirmAwake() {
	a.IsAwakeConfirmed = true
}

// NeedsToConfirmAwake reports whether the alarm is ringing and waiting for acknowledgement
func (a Alarm) NeedsToConfirmAwake() bool {
	return a.IsConfigured && !a.IsMuted && !a.IsAwakeConfirmed
}

// CanPresentSettings reports whether the day may be edited; a ringing day may not
func (a Alarm) CanPresentSettings() bool {
	return !(a.IsConfigured && !a.IsAwakeConfirmed)
}

// CanPresentRowActions reports whether quick actions (mute) apply to the day
func (a Alarm) CanPresentRowActions() bool {
	return a.IsConfigured && a.IsAwakeConfirmed
}

// TimeDescription is the label shown for the day's alarm
func (a Alarm) TimeDescription() string {
	switch {
	case !a.IsConfigured:
		return "No Alarm"
	case a.IsMuted:
		return "MUTED"
	default:
		return a.FinalAlarmTime.TimeDescription()
	}
}

func (a *Alarm) mustBeConfigured(op string) {
	if !a.IsConfigured {
		panic(fmt.Errorf("%w: cannot %s on %s", ErrAlarmNotConfigured, op, a.Day))
	}
}
