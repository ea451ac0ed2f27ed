package system

import "github.com/younwookim/ballistics/internal/domain/entity"

// TriggerState is the trigger input of one shooter for one tick
type TriggerState struct {
	Held        bool
	JustPressed bool
}

// FireControl decides whether a weapon discharges this tick. Semi-automatic
// weapons fire once per press, automatic weapons while held, and burst weapons
// fire BurstSize rounds per press at the weapon's fire rate.
func FireControl(w *entity.Weapon, trigger TriggerState, now float64) bool {
	preset := w.Preset

	if preset.BurstSize > 1 {
		if trigger.JustPressed && w.BurstRemaining == 0 {
			w.BurstRemaining = preset.BurstSize
		}
		if w.BurstRemaining > 0 && w.CanFire(now) {
			w.BurstRemaining--
			w.LastFireTime = now
			return true
		}
		return false
	}

	wants := trigger.JustPressed
	if preset.Automatic {
		wants = trigger.Held
	}
	if !wants || !w.CanFire(now) {
		return false
	}
	w.LastFireTime = now
	return true
}
