package cmd

import (
	"github.com/zjrosen/mimic/internal/game"
	"github.com/zjrosen/mimic/internal/log"
	"github.com/zjrosen/mimic/internal/store"
)

type resultSaver interface {
	Save(game.Result) error
}

// resultRecorder saves finished games on the background writer so the UI
// never waits on the database.
type resultRecorder struct {
	saver  resultSaver
	writer *store.Writer
}

func (r *resultRecorder) RecordResult(res game.Result) {
	log.Debug(log.CatDB, "Recording game result", "id", res.ID, "score", res.Score)
	r.writer.Submit(func() error { return r.saver.Save(res) })
}
