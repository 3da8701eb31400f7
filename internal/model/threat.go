package model

// threatEntry tracks accumulated threat and damage from a single attacker.
type threatEntry struct {
	threat int64
	damage int64
}

// ThreatList tracks how much attention each attacker has earned from an NPC.
// It feeds target selection fallbacks and the Target.ThreatLevel field.
//
// Plain map, no synchronization: the list is only touched from the owning
// executor's tick path (same discipline as every other executor field).
type ThreatList struct {
	entries map[ActorID]*threatEntry
}

// NewThreatList creates an empty threat list.
func NewThreatList() *ThreatList {
	return &ThreatList{entries: make(map[ActorID]*threatEntry)}
}

// AddThreat adds threat for an attacker. Creates the entry if needed.
func (l *ThreatList) AddThreat(id ActorID, threat int64) {
	l.getOrCreate(id).threat += threat
}

// AddDamage records damage dealt by an attacker. Creates the entry if needed.
func (l *ThreatList) AddDamage(id ActorID, damage int64) {
	l.getOrCreate(id).damage += damage
}

// Threat returns accumulated threat for an attacker (0 if unknown).
func (l *ThreatList) Threat(id ActorID) int64 {
	if e, ok := l.entries[id]; ok {
		return e.threat
	}
	return 0
}

// Damage returns accumulated damage for an attacker (0 if unknown).
func (l *ThreatList) Damage(id ActorID) int64 {
	if e, ok := l.entries[id]; ok {
		return e.damage
	}
	return 0
}

// MostThreatening returns the attacker with the highest threat.
// Returns 0 if the list is empty.
func (l *ThreatList) MostThreatening() ActorID {
	var maxThreat int64
	var top ActorID
	for id, e := range l.entries {
		if top == 0 || e.threat > maxThreat {
			maxThreat = e.threat
			top = id
		}
	}
	return top
}

// NormalizedThreat returns the attacker's threat as a share of the current
// maximum, in [0,1]. An empty list or unknown attacker yields 0.
func (l *ThreatList) NormalizedThreat(id ActorID) float64 {
	e, ok := l.entries[id]
	if !ok || e.threat <= 0 {
		return 0
	}
	var maxThreat int64
	for _, entry := range l.entries {
		if entry.threat > maxThreat {
			maxThreat = entry.threat
		}
	}
	if maxThreat <= 0 {
		return 0
	}
	return float64(e.threat) / float64(maxThreat)
}

// Remove removes an attacker from the list.
func (l *ThreatList) Remove(id ActorID) {
	delete(l.entries, id)
}

// Clear removes all entries.
func (l *ThreatList) Clear() {
	clear(l.entries)
}

// IsEmpty reports whether the list has no entries.
func (l *ThreatList) IsEmpty() bool {
	return len(l.entries) == 0
}

// Len returns the number of tracked attackers.
func (l *ThreatList) Len() int {
	return len(l.entries)
}

func (l *ThreatList) getOrCreate(id ActorID) *threatEntry {
	if e, ok := l.entries[id]; ok {
		return e
	}
	e := &threatEntry{}
	l.entries[id] = e
	return e
}

// CalcThreatValue converts damage into threat relative to the victim's level.
// Formula: (damage * 100) / (level + 7).
func CalcThreatValue(damage int32, level int32) int64 {
	if level < 1 {
		level = 1
	}
	return (int64(damage) * 100) / int64(level+7)
}
