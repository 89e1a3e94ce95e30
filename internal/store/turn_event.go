package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var turnEventColumns = []string{
	"id", "sequence", "timestamp", "session_id", "topic", "event", "command",
	"phase_from", "phase_to", "directive", "question_index", "score", "total_questions",
	"needs_attention", "attempts", "outcome", "error_message", "latency_ms", "title",
}

func (r *eventRepo) AppendTurn(ctx context.Context, data TurnEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sqlite().Insert(tableTurnEvents).
		Columns(turnEventColumns[1:]...).
		Values(
			seqNum, time.Now().UnixMilli(), data.SessionID, data.Topic, data.Event, data.Command,
			data.PhaseFrom, data.PhaseTo, data.Directive, data.QuestionIndex, data.Score, data.TotalQuestions,
			data.NeedsAttention, data.Attempts, data.Outcome, data.ErrorMessage, data.LatencyMs, data.Title,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save turn event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryTurns(ctx context.Context, opts QueryOpts) ([]TurnEventRecord, error) {
	sel := sqlite().Select(turnEventColumns...).From(entsql.Table(tableTurnEvents))
	applyQueryOpts(sel, opts)
	sel.OrderBy("sequence")
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return r.queryTurns(ctx, sel)
}

func (r *eventRepo) SessionSummaries(ctx context.Context, limit int) ([]SessionSummary, error) {
	sel := sqlite().Select(
		"session_id",
		entsql.As(entsql.Count("*"), "turns"),
		entsql.As(entsql.Min("timestamp"), "started_at"),
		entsql.As(entsql.Max("sequence"), "last_sequence"),
	).
		From(entsql.Table(tableTurnEvents)).
		GroupBy("session_id").
		OrderBy(entsql.Desc("last_sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}

	var (
		summaries []SessionSummary
		lastSeqs  []any
	)
	for rows.Next() {
		var (
			s       SessionSummary
			started int64
			lastSeq int64
		)
		if err := rows.Scan(&s.SessionID, &s.Turns, &started, &lastSeq); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		s.StartedAt = time.UnixMilli(started)
		summaries = append(summaries, s)
		lastSeqs = append(lastSeqs, lastSeq)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(summaries) == 0 {
		return nil, nil
	}

	latest, err := r.queryTurns(ctx, sqlite().Select(turnEventColumns...).
		From(entsql.Table(tableTurnEvents)).
		Where(entsql.In("sequence", lastSeqs...)))
	if err != nil {
		return nil, err
	}
	bySession := make(map[string]TurnEventRecord, len(latest))
	for _, t := range latest {
		bySession[t.SessionID] = t
	}

	for i := range summaries {
		t, ok := bySession[summaries[i].SessionID]
		if !ok {
			continue
		}
		summaries[i].Topic = t.Topic
		summaries[i].Phase = t.PhaseTo
		summaries[i].Score = t.Score
		summaries[i].TotalQuestions = t.TotalQuestions
		summaries[i].NeedsAttention = t.NeedsAttention
		summaries[i].LastTurnAt = t.Timestamp
	}
	return summaries, nil
}

func (r *eventRepo) queryTurns(ctx context.Context, sel *entsql.Selector) ([]TurnEventRecord, error) {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query turn events: %w", err)
	}
	defer rows.Close()

	var out []TurnEventRecord
	for rows.Next() {
		var (
			rec TurnEventRecord
			ts  int64
		)
		err := rows.Scan(
			&rec.ID, &rec.Sequence, &ts, &rec.SessionID, &rec.Topic, &rec.Event, &rec.Command,
			&rec.PhaseFrom, &rec.PhaseTo, &rec.Directive, &rec.QuestionIndex, &rec.Score, &rec.TotalQuestions,
			&rec.NeedsAttention, &rec.Attempts, &rec.Outcome, &rec.ErrorMessage, &rec.LatencyMs, &rec.Title,
		)
		if err != nil {
			return nil, fmt.Errorf("scan turn event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}
