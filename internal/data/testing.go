package data

// SetTestAnimationDef populates AnimationTable with a test clip mapping.
// Intended for tests from other packages that need animation data setup.
func SetTestAnimationDef(tag, clip string, looping, interruptible bool) {
	if AnimationTable == nil {
		AnimationTable = make(map[string]*animationDef, 8)
	}
	AnimationTable[tag] = &animationDef{
		tag:           tag,
		clip:          clip,
		playRate:      1.0,
		looping:       looping,
		priority:      10,
		interruptible: interruptible,
	}
}

// ClearTestAnimationTable resets AnimationTable for test isolation.
func ClearTestAnimationTable() {
	AnimationTable = make(map[string]*animationDef, 8)
}

// DeleteTestAnimationDef removes a single entry from AnimationTable.
func DeleteTestAnimationDef(tag string) {
	delete(AnimationTable, tag)
}
