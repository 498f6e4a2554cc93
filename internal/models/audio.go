package models

// AudioSettings is the persisted settings object the music widget reads.
// Playback itself is a presentation concern.
type AudioSettings struct {
	MusicEnabled        bool    `json:"music_enabled"`
	VoiceEnabled        bool    `json:"voice_enabled"`
	SoundEffectsEnabled bool    `json:"sound_effects_enabled"`

	MusicVolume           float64 `json:"music_volume"`
	VoiceVolume           float64 `json:"voice_volume"`
	SoundEffectsVolume    float64 `json:"sound_effects_volume"`
	BackgroundMusicVolume float64 `json:"background_music_volume"`
	GameMusicVolume       float64 `json:"game_music_volume"`
}

func DefaultAudioSettings() *AudioSettings {
	return &AudioSettings{
		MusicEnabled:          true,
		VoiceEnabled:          true,
		SoundEffectsEnabled:   true,
		MusicVolume:           0.7,
		VoiceVolume:           0.8,
		SoundEffectsVolume:    0.6,
		BackgroundMusicVolume: 0.3,
		GameMusicVolume:       0.6,
	}
}
