package models_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"betbingo-backend/internal/models"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "$5.00", want: "5"},
		{in: "$25.00", want: "25"},
		{in: "$1,000", want: "1000"},
		{in: "10.50", want: "10.5"},
		{in: "FREE", want: "0"},
		{in: "free", want: "0"},
		{in: "", wantErr: true},
		{in: "five dollars", wantErr: true},
		{in: "$-3.00", wantErr: true},
	}

	for _, tc := range cases {
		got, err := models.ParseMoney(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMoney(%q) should fail", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMoney(%q) failed: %v", tc.in, err)
			continue
		}
		if want, _ := decimal.NewFromString(tc.want); !got.Equal(want) {
			t.Errorf("ParseMoney(%q) = %s, want %s", tc.in, got, want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	amount := decimal.RequireFromString("5")
	if got := models.FormatMoney(amount); got != "$5.00" {
		t.Errorf("FormatMoney(5) = %q, want $5.00", got)
	}
}

func TestEntryFee(t *testing.T) {
	offer := &models.TournamentOffer{Entry: "$15.00"}
	fee, err := offer.EntryFee()
	if err != nil {
		t.Fatalf("EntryFee failed: %v", err)
	}
	if !fee.Equal(decimal.RequireFromString("15")) {
		t.Errorf("EntryFee = %s, want 15", fee)
	}

	bad := &models.TournamentOffer{Entry: "???"}
	if _, err := bad.EntryFee(); err == nil {
		t.Error("EntryFee should fail on malformed entry")
	}
}

func TestGenerateIDs(t *testing.T) {
	if models.GenerateGameID() == models.GenerateGameID() {
		t.Error("game IDs should be unique")
	}
	if models.GenerateEntryToken() == "" {
		t.Error("entry token should not be empty")
	}
	if models.GenerateTransactionID() == "" {
		t.Error("transaction ID should not be empty")
	}
}

func TestDefaultAudioSettings(t *testing.T) {
	settings := models.DefaultAudioSettings()
	if !settings.MusicEnabled || !settings.VoiceEnabled || !settings.SoundEffectsEnabled {
		t.Error("defaults should enable all channels")
	}
	if settings.BackgroundMusicVolume >= settings.GameMusicVolume {
		t.Error("background music should default quieter than game music")
	}
}
