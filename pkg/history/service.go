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

package history

import (
	"context"
	"fmt"

	"github.com/nodehist/nodehist/pkg/logger"
	"github.com/nodehist/nodehist/pkg/models"
	"github.com/nodehist/nodehist/pkg/store"
)

// NodeResult is the outcome of querying one node's store. Err is set when the
// store could not be opened or its query failed; the batch continues with the
// remaining nodes either way.
type NodeResult struct {
	Node    string
	Records []models.Record
	Err     error
}

// Service runs record-selection requests across the per-node stores in a data
// directory, one store at a time. Stores are opened, queried to completion,
// and closed sequentially; there is no concurrent access to a store.
type Service struct {
	dir    string
	engine *Engine
	log    logger.Logger

	// openNode is swappable for tests.
	openNode func(dir, node string) (store.Store, error)
}

func NewService(dir string, log logger.Logger) *Service {
	return &Service{
		dir:    dir,
		engine: NewEngine(log),
		log:    log,
		openNode: func(dir, node string) (store.Store, error) {
			return store.OpenNode(dir, node)
		},
	}
}

// Run resolves the request's node selector and queries each selected store.
// An invalid timestamp range rejects the whole request; any per-store failure
// is recorded in that node's result and the batch moves on.
func (s *Service) Run(ctx context.Context, req models.QueryRequest) ([]NodeResult, error) {
	if req.From != nil && req.To != nil && *req.From > *req.To {
		return nil, fmt.Errorf("%w: from %d is after to %d", ErrInvalidRange, *req.From, *req.To)
	}

	nodes := req.Nodes
	if len(nodes) == 0 {
		var err error

		nodes, err = store.ListNodes(s.dir)
		if err != nil {
			return nil, err
		}
	}

	results := make([]NodeResult, 0, len(nodes))
	emitted, failed := 0, 0

	for _, node := range nodes {
		res := s.runNode(ctx, node, req)
		if res.Err != nil {
			failed++

			s.log.Error().
				Err(res.Err).
				Str("node", node).
				Msg("Node query failed")
		} else {
			emitted += len(res.Records)
		}

		results = append(results, res)
	}

	s.log.Info().
		Int("stores", len(nodes)).
		Int("records", emitted).
		Int("failures", failed).
		Msg("Batch query finished")

	return results, nil
}

func (s *Service) runNode(ctx context.Context, node string, req models.QueryRequest) NodeResult {
	st, err := s.openNode(s.dir, node)
	if err != nil {
		return NodeResult{Node: node, Err: err}
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			s.log.Warn().Err(cerr).Str("node", node).Msg("Closing store failed")
		}
	}()

	records, err := s.engine.Query(ctx, st, req)
	if err != nil {
		return NodeResult{Node: node, Err: err}
	}

	return NodeResult{Node: node, Records: records}
}
