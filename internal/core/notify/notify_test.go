package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLevel_Lifetime(t *testing.T) {
	assert.Less(t, LevelInfo.Lifetime(), LevelWarning.Lifetime())
	assert.Less(t, LevelWarning.Lifetime(), LevelError.Lifetime())
	assert.Equal(t, LevelInfo.Lifetime(), Level("").Lifetime())
}

func TestNotification_ExpiresAt(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	n := Notification{Level: LevelError, CreatedAt: at}
	assert.Equal(t, at.Add(LevelError.Lifetime()), n.ExpiresAt())
}
