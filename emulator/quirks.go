package emulator

// Quirks selects between the behaviours CHIP-8 interpreters disagree on.
// The zero value is the common modern interpretation.
type Quirks struct {
	// 8xy6 and 8xyE copy Vy into Vx before shifting, as on the COSMAC VIP.
	ShiftUsesVy bool `toml:"shift_uses_vy"`

	// Sprite pixels past the right or bottom edge wrap to the other side instead of being clipped.
	WrapSprites bool `toml:"wrap_sprites"`

	// Fx1E sets VF to 1 when I passes 0xFFF, and to 0 otherwise.
	IndexOverflowFlag bool `toml:"index_overflow_flag"`

	// Fx55 and Fx65 leave I pointing just past the last byte transferred.
	LoadStoreIncrementsIndex bool `toml:"load_store_increments_index"`
}
