package data

import (
	"testing"
)

// TestLoadAnimations_Count tests that the literal table loads completely.
func TestLoadAnimations_Count(t *testing.T) {
	if err := LoadAnimations(); err != nil {
		t.Fatalf("LoadAnimations() failed: %v", err)
	}

	if len(AnimationTable) != len(animationDefs) {
		t.Errorf("AnimationTable size: got %d, want %d", len(AnimationTable), len(animationDefs))
	}
}

// TestLoadAnimations_TalkClip tests the Social.Talk mapping.
func TestLoadAnimations_TalkClip(t *testing.T) {
	if err := LoadAnimations(); err != nil {
		t.Fatalf("LoadAnimations() failed: %v", err)
	}

	def := GetAnimationDef("AI.Intent.Social.Talk")
	if def == nil {
		t.Fatal("Social.Talk not found in AnimationTable")
	}
	if def.Clip() != "AM_Talk_Gesture" {
		t.Errorf("clip: got %q, want %q", def.Clip(), "AM_Talk_Gesture")
	}
	if !def.Looping() {
		t.Error("Social.Talk should loop")
	}
	if !def.Interruptible() {
		t.Error("Social.Talk should be interruptible")
	}
	if def.PlayRate() != 1.0 {
		t.Errorf("playRate: got %.2f, want 1.0", def.PlayRate())
	}
}

func TestAnimationForTag_AncestorFallback(t *testing.T) {
	if err := LoadAnimations(); err != nil {
		t.Fatalf("LoadAnimations() failed: %v", err)
	}

	tests := []struct {
		name     string
		tag      string
		wantClip string
		wantNil  bool
	}{
		{"exact match", "AI.Intent.Social.Talk", "AM_Talk_Gesture", false},
		{"falls back to parent", "AI.Intent.Social.Dance", "AM_Gesture_Generic", false},
		{"falls back two levels", "AI.Intent.Curiosity.Sniff.Ground", "AM_Curious_Peer", false},
		{"unmapped branch", "AI.Intent.Combat.Attack", "", true},
		{"unknown root", "Totally.Unrelated", "", true},
		{"empty tag", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := AnimationForTag(tt.tag)
			if tt.wantNil {
				if def != nil {
					t.Errorf("AnimationForTag(%q) = %q, want nil", tt.tag, def.Clip())
				}
				return
			}
			if def == nil {
				t.Fatalf("AnimationForTag(%q) = nil, want %q", tt.tag, tt.wantClip)
			}
			if def.Clip() != tt.wantClip {
				t.Errorf("AnimationForTag(%q) = %q, want %q", tt.tag, def.Clip(), tt.wantClip)
			}
		})
	}
}

func TestAnimationTestHooks(t *testing.T) {
	ClearTestAnimationTable()
	defer ClearTestAnimationTable()

	SetTestAnimationDef("AI.Intent.Test", "AM_Test", false, true)

	def := GetAnimationDef("AI.Intent.Test")
	if def == nil {
		t.Fatal("SetTestAnimationDef() did not populate the table")
	}
	if def.Clip() != "AM_Test" {
		t.Errorf("clip: got %q, want AM_Test", def.Clip())
	}

	DeleteTestAnimationDef("AI.Intent.Test")
	if GetAnimationDef("AI.Intent.Test") != nil {
		t.Error("DeleteTestAnimationDef() did not remove the entry")
	}
}

func TestIdleAndGesturePools(t *testing.T) {
	if len(IdleClips()) == 0 {
		t.Error("idle clip pool must not be empty")
	}
	if len(GestureClips()) == 0 {
		t.Error("gesture clip pool must not be empty")
	}
}
