package config

const (
	WindowWidth  = 1280
	WindowHeight = 720
	WindowTitle  = "particle-demo - O: open, Space: play/pause, Up/Down: volume, M: mute, Esc/Q: quit"

	VisualRingSize  = 8192
	SmoothingFactor = 0.6
	LevelBands      = 64

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 40

	// HUD strip along the bottom edge
	HUDMargin      = 20
	ProgressHeight = 6
	MeterHeight    = 40

	// Terminal cell size used to derive a pixel viewport
	CellWidth  = 8
	CellHeight = 16

	VolumeStep = 0.5
	VolumeMin  = -6.0
	VolumeMax  = 2.0
)
