package services

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villamare/concierge-nlu/internal/domain/entities"
	apperrors "github.com/villamare/concierge-nlu/pkg/errors"
)

func TestDefaultExemplars_CoversEveryIntentExceptUnknown(t *testing.T) {
	set := DefaultExemplars()
	for _, intent := range entities.ValidIntents() {
		if intent == entities.IntentUnknown {
			_, ok := set[intent]
			assert.False(t, ok, "unknown must not carry exemplars")
			continue
		}
		phrases, ok := set[intent]
		assert.True(t, ok, "intent %q missing from defaults", intent)
		assert.NotEmpty(t, phrases, "intent %q has no phrases", intent)
	}
}

func TestLoadExemplars_ShippedFile(t *testing.T) {
	set, err := LoadExemplars(repoConfigPath(t, "intent_exemplars.json"))
	require.NoError(t, err)

	// The shipped file mirrors the built-in defaults.
	defaults := DefaultExemplars()
	require.Len(t, set, len(defaults))
	for intent, phrases := range defaults {
		assert.Equal(t, phrases, set[intent], "intent %q", intent)
	}
}

func TestLoadExemplars_NormalizesCaseAndWhitespace(t *testing.T) {
	path := writeTempExemplars(t, `{"Greeting": ["  Bom Dia  ", "OI", ""]}`)
	set, err := LoadExemplars(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"bom dia", "oi"}, set[entities.IntentGreeting])
}

func TestLoadExemplars_Errors(t *testing.T) {
	_, err := LoadExemplars(filepath.Join(t.TempDir(), "missing.json"))
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{"greeting": [`},
		{"unknown intent", `{"upsell": ["quer upgrade"]}`},
		{"unknown reserved", `{"unknown": ["whatever"]}`},
		{"empty phrase list", `{"greeting": []}`},
		{"no intents", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadExemplars(writeTempExemplars(t, tc.body))
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
		})
	}
}

func writeTempExemplars(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exemplars.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func repoConfigPath(t *testing.T, name string) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "config", name)
}
