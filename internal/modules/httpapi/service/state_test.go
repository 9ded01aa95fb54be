package service

import (
	"testing"
	"time"

	"stock_watch/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStateObserveCountsCommitsOnly(t *testing.T) {
	s := NewState()
	committed := time.Unix(1700000000, 0)

	// до первого коммита: загрузка и пустые idle-снапшоты
	s.Observe(models.Snapshot{Loading: true})
	s.Observe(models.Snapshot{})
	assert.False(t, s.Ready())
	assert.EqualValues(t, 0, s.Syncs())
	assert.True(t, s.LastSync().IsZero())

	// коммит внутри цикла и idle после него: одна и та же версия
	s.Observe(models.Snapshot{Version: 1, Loading: true, CommittedAt: committed})
	s.Observe(models.Snapshot{Version: 1, CommittedAt: committed})
	assert.True(t, s.Ready())
	assert.EqualValues(t, 1, s.Syncs())
	assert.Equal(t, committed.Unix(), s.LastSync().Unix())

	// неудачный sync или no-op add: версия не растёт, счётчики стоят
	s.Observe(models.Snapshot{Version: 1, Loading: true, CommittedAt: committed})
	s.Observe(models.Snapshot{Version: 1, CommittedAt: committed})
	assert.EqualValues(t, 1, s.Syncs())

	next := committed.Add(time.Minute)
	s.Observe(models.Snapshot{Version: 2, CommittedAt: next})
	assert.EqualValues(t, 2, s.Syncs())
	assert.Equal(t, next.Unix(), s.LastSync().Unix())

	// запоздавший старый снапшот не откатывает отметку
	s.Observe(models.Snapshot{Version: 1, CommittedAt: committed})
	assert.Equal(t, next.Unix(), s.LastSync().Unix())
}
