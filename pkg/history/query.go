/*
 * Copyright 2026 Nodehist Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package history resolves record-selection requests against per-node sorted
// stores: the most recent N records, everything from the beginning, or an
// inclusive [from, to] timestamp window.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nodehist/nodehist/pkg/logger"
	"github.com/nodehist/nodehist/pkg/models"
	"github.com/nodehist/nodehist/pkg/store"
)

const (
	// TimestampField is the record field holding the derived human-readable
	// timestamp, injected into every record at query time.
	TimestampField = "timestamp"

	timestampLayout = "2006-01-02 15:04:05"
)

// Engine selects and decodes records from a node's store.
type Engine struct {
	log logger.Logger
}

func NewEngine(log logger.Logger) *Engine {
	return &Engine{log: log}
}

// Query resolves req against one node's store and returns the selected
// records in ascending timestamp order.
//
// From/To, when either is set, select a bounded window and override Count and
// FromStart. FromStart returns the full forward scan and deliberately ignores
// Count; Count is honored only in the default tail-relative mode, where
// models.Unlimited means "all records".
func (e *Engine) Query(ctx context.Context, st store.Store, req models.QueryRequest) ([]models.Record, error) {
	if req.From != nil && req.To != nil && *req.From > *req.To {
		return nil, fmt.Errorf("%w: from %d is after to %d", ErrInvalidRange, *req.From, *req.To)
	}

	var records []models.Record

	err := st.View(func(c store.Cursor) error {
		var err error

		switch {
		case req.From != nil || req.To != nil:
			records, err = e.scanWindow(ctx, st.Name(), c, req.From, req.To)
		case req.FromStart:
			records, err = e.scanForward(ctx, st.Name(), c)
		default:
			records, err = e.scanTail(ctx, st.Name(), c, req.Count)
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	e.log.Debug().
		Str("node", st.Name()).
		Int("records", len(records)).
		Msg("Query resolved")

	return records, nil
}

// scanWindow emits every record with from <= key <= to in ascending order.
// The cursor starts at the greatest key <= from (or the first key when the
// bound predates the store), so a lower bound earlier than any stored key
// still yields the earliest record.
func (e *Engine) scanWindow(ctx context.Context, node string, c store.Cursor, from, to *uint64) ([]models.Record, error) {
	var records []models.Record

	ts, raw, ok := uint64(0), []byte(nil), false
	if from != nil {
		ts, raw, ok = c.SeekFloor(*from)
	} else {
		ts, raw, ok = c.First()
	}

	for ; ok; ts, raw, ok = c.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if from != nil && ts < *from {
			continue
		}

		if to != nil && ts > *to {
			break
		}

		rec, err := e.decodeRecord(node, ts, raw)
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, nil
}

func (e *Engine) scanForward(ctx context.Context, node string, c store.Cursor) ([]models.Record, error) {
	var records []models.Record

	for ts, raw, ok := c.First(); ok; ts, raw, ok = c.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := e.decodeRecord(node, ts, raw)
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, nil
}

// scanTail collects up to count most-recent records walking backward from the
// last key, then reverses them into chronological order.
func (e *Engine) scanTail(ctx context.Context, node string, c store.Cursor, count int) ([]models.Record, error) {
	var records []models.Record

	for ts, raw, ok := c.Last(); ok; ts, raw, ok = c.Prev() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if count > models.Unlimited && len(records) == count {
			break
		}

		rec, err := e.decodeRecord(node, ts, raw)
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	return records, nil
}

func (e *Engine) decodeRecord(node string, ts uint64, raw []byte) (models.Record, error) {
	var data map[string]any

	if err := json.Unmarshal(raw, &data); err != nil {
		return models.Record{}, &DecodeError{Node: node, Timestamp: ts, Err: err}
	}

	// A null record means the collector had no data for this sample; the
	// derived timestamp is still injected so every record carries one.
	if data == nil {
		data = make(map[string]any, 1)
	}

	data[TimestampField] = FormatTimestamp(ts)

	return models.Record{Node: node, Timestamp: ts, Data: data}, nil
}

// FormatTimestamp renders a store key as "<unix> <local datetime>".
func FormatTimestamp(ts uint64) string {
	return fmt.Sprintf("%d %s", ts, time.Unix(int64(ts), 0).Format(timestampLayout))
}
