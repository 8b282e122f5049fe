package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vaani-bot/internal/docstore"
)

// ErrInvalidInteraction marks an interaction rejected before any write.
var ErrInvalidInteraction = errors.New("invalid interaction")

// Recorder persists the durable effects of one interaction: the immutable
// log entry, then the weekly stats document, then the overall summary.
//
// The three writes are not transactional. A failure surfaces immediately
// and leaves the earlier writes in place; recording is best-effort and
// must never gate the reply already sent to the user. Two concurrent
// Record calls can race on the distribution array rewrite and one new
// language insertion can be lost (last-writer-wins); the scalar counters
// stay correct because deltas commute.
type Recorder struct {
	store docstore.Store
	now   func() time.Time
}

type RecorderOption func(*Recorder)

// WithClock overrides the clock used for the ingestion timestamp and
// weekly bucketing. Intended for tests.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

func NewRecorder(store docstore.Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{store: store, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Record writes the interaction log and folds the interaction into the
// weekly and overall stats documents. newUser signals the first-ever
// interaction for this user and bumps active_users on the overall
// document.
//
// Stats always bucket into the week of the current moment, not of the
// interaction's own timestamp. The timestamp only shapes the log ID, so
// a same-second repeat from one user silently overwrites its log entry
// while still counting twice in the stats.
func (r *Recorder) Record(ctx context.Context, in Interaction, newUser bool) error {
	if in.UserID == "" {
		return fmt.Errorf("%w: missing user_id", ErrInvalidInteraction)
	}
	if in.Modality != ModalityText && in.Modality != ModalityAudio {
		return fmt.Errorf("%w: missing or unknown modality %q", ErrInvalidInteraction, in.Modality)
	}
	if in.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidInteraction)
	}

	// The persisted date is the ingestion time observed here, not the
	// caller-supplied timestamp.
	logFields := docstore.Fields{
		"user_id":    docstore.Literal(in.UserID),
		"question":   docstore.Literal(in.Question),
		"reply":      docstore.Literal(in.Reply),
		"modal":      docstore.Literal(string(in.Modality)),
		"lang":       docstore.Literal(in.Language),
		"audio_file": docstore.Literal(in.AudioRef),
		"date":       docstore.Literal(r.now()),
	}
	if err := r.store.Set(ctx, logsCollection, LogID(in.UserID, in.Timestamp), logFields, false); err != nil {
		return fmt.Errorf("write interaction log: %w", err)
	}

	isVoice := in.Modality == ModalityAudio
	weekID := WeekStartDate(r.now())
	if err := r.updateStats(ctx, WeekDocID(weekID), weekID, in.Language, isVoice, false); err != nil {
		return fmt.Errorf("update weekly stats: %w", err)
	}
	if err := r.updateStats(ctx, overallDocID, "", in.Language, isVoice, newUser); err != nil {
		return fmt.Errorf("update overall summary: %w", err)
	}
	return nil
}

// updateStats is the read-modify-write on one stats document: counters go
// through deltas, the distribution array is replaced wholesale with the
// recomputed sequence, all in a single merge write.
func (r *Recorder) updateStats(ctx context.Context, docID, weekStartDate, lang string, isVoice, newUser bool) error {
	current, err := r.store.Get(ctx, statsCollection, docID)
	if err != nil {
		return err
	}
	langs := ApplyInteraction(languagesFrom(current["language_distribution"]), lang, isVoice)

	voiceDelta := int64(0)
	if isVoice {
		voiceDelta = 1
	}
	fields := docstore.Fields{
		"interactions":          docstore.Delta(1),
		"voice":                 docstore.Delta(voiceDelta),
		"language_distribution": docstore.Literal(languagesValue(langs)),
	}
	if weekStartDate != "" {
		fields["week_start_date"] = docstore.Literal(weekStartDate)
	}
	if newUser {
		fields["active_users"] = docstore.Delta(1)
	}
	return r.store.Set(ctx, statsCollection, docID, fields, true)
}

// WeeklyStats reads the stats document for the given week start date.
// A never-written week decodes to the zero document with week_start_date
// pre-filled.
func (r *Recorder) WeeklyStats(ctx context.Context, weekStartDate string) (Document, error) {
	raw, err := r.store.Get(ctx, statsCollection, WeekDocID(weekStartDate))
	if err != nil {
		return Document{}, fmt.Errorf("read weekly stats: %w", err)
	}
	doc := documentFrom(raw)
	if doc.WeekStartDate == "" {
		doc.WeekStartDate = weekStartDate
	}
	return doc, nil
}

// OverallStats reads the all-time summary document.
func (r *Recorder) OverallStats(ctx context.Context) (Document, error) {
	raw, err := r.store.Get(ctx, statsCollection, overallDocID)
	if err != nil {
		return Document{}, fmt.Errorf("read overall summary: %w", err)
	}
	return documentFrom(raw), nil
}
