// Package engine orchestrates a support conversation: retrieval, the
// confidence gate, the clarification dialog, and answer generation.
package engine

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/kwhalen/escalation-helper/internal/answer"
	"github.com/kwhalen/escalation-helper/internal/assemble"
	"github.com/kwhalen/escalation-helper/internal/clarify"
	"github.com/kwhalen/escalation-helper/internal/confidence"
	"github.com/kwhalen/escalation-helper/internal/config"
	"github.com/kwhalen/escalation-helper/internal/db"
	"github.com/kwhalen/escalation-helper/internal/retrieval"
	"github.com/kwhalen/escalation-helper/internal/vectordb"
)

// Result is the outcome of one conversation turn. Either Answer or Question
// is set, never both.
type Result struct {
	Answer             string
	Question           string
	NeedsClarification bool
	LowConfidence      bool
	Sources            []string
	Chunks             []vectordb.ScoredChunk
}

// Engine handles conversation turns. Turns within one session are serialized;
// different sessions run concurrently.
type Engine struct {
	pipeline  *retrieval.Pipeline
	generator *answer.Generator
	store     *db.DB // nil disables transcripts
	dialog    config.DialogConfig
	threshold float64

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu   sync.Mutex
	clar clarify.Session
}

// New creates an Engine. Pass a nil store to disable transcript persistence.
func New(pipeline *retrieval.Pipeline, generator *answer.Generator, store *db.DB, search config.SearchConfig, dialog config.DialogConfig) *Engine {
	return &Engine{
		pipeline:  pipeline,
		generator: generator,
		store:     store,
		dialog:    dialog,
		threshold: search.DistanceThreshold,
		sessions:  make(map[string]*session),
	}
}

// NewSessionID mints an identifier for a fresh conversation.
func (e *Engine) NewSessionID() string {
	return uuid.NewString()
}

// Handle processes one user message within a session. When retrieval
// confidence is too low it returns a clarifying question instead of an
// answer; subsequent messages in the session are treated as clarification
// replies until the dialog resolves.
func (e *Engine) Handle(ctx context.Context, sessionID, message string) (*Result, error) {
	s := e.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	e.record(ctx, sessionID, "user", message)

	var res *Result
	var err error
	if s.clar.Active() {
		res, err = e.handleReply(ctx, s, message)
	} else {
		res, err = e.handleQuery(ctx, s, message)
	}
	if err != nil {
		return nil, err
	}

	if res.NeedsClarification {
		e.record(ctx, sessionID, "assistant", res.Question)
	} else {
		e.record(ctx, sessionID, "assistant", res.Answer)
	}
	return res, nil
}

// AskOnce answers a single query without the clarification dialog. Weak
// retrievals are answered anyway, flagged low-confidence.
func (e *Engine) AskOnce(ctx context.Context, query string) (*Result, error) {
	chunks, err := e.pipeline.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	level := confidence.Classify(chunks, e.threshold)
	return e.answerFrom(ctx, query, chunks, level == confidence.Insufficient)
}

func (e *Engine) handleQuery(ctx context.Context, s *session, query string) (*Result, error) {
	chunks, err := e.pipeline.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	if confidence.Classify(chunks, e.threshold) == confidence.Sufficient {
		s.clar = s.clar.Reset()
		return e.answerFrom(ctx, query, chunks, false)
	}

	clar, question := clarify.Begin(query)
	s.clar = clar
	return &Result{Question: question, NeedsClarification: true}, nil
}

func (e *Engine) handleReply(ctx context.Context, s *session, reply string) (*Result, error) {
	replies := len(s.clar.Replies)
	clar, merged := s.clar.WithReply(reply)
	s.clar = clar

	// A non-answer re-asks the current question without burning a turn.
	if len(s.clar.Replies) == replies {
		return &Result{Question: s.clar.CurrentQuestion(), NeedsClarification: true}, nil
	}

	chunks, err := e.pipeline.Retrieve(ctx, merged)
	if err != nil {
		return nil, err
	}

	level := confidence.Classify(chunks, e.threshold)
	next, question := s.clar.Advance(level, e.maxTurns())
	s.clar = next

	if next.Status != clarify.StatusResolved {
		return &Result{Question: question, NeedsClarification: true}, nil
	}

	lowConfidence := next.LowConfidence
	s.clar = s.clar.Reset()
	return e.answerFrom(ctx, merged, chunks, lowConfidence)
}

func (e *Engine) answerFrom(ctx context.Context, query string, chunks []vectordb.ScoredChunk, lowConfidence bool) (*Result, error) {
	contextBlock := assemble.Assemble(chunks, e.dialog.MaxContextChars)

	text, err := e.generator.Generate(ctx, query, contextBlock, lowConfidence)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &Result{
		Answer:        text,
		LowConfidence: lowConfidence,
		Sources:       assemble.Sources(chunks),
		Chunks:        chunks,
	}, nil
}

func (e *Engine) session(id string) *session {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[id]
	if !ok {
		s = &session{}
		e.sessions[id] = s
	}
	return s
}

func (e *Engine) maxTurns() int {
	if e.dialog.MaxClarificationTurns > 0 {
		return e.dialog.MaxClarificationTurns
	}
	return 2
}

// record appends to the transcript. Transcript failures are logged, never
// surfaced; losing history must not break the conversation.
func (e *Engine) record(ctx context.Context, sessionID, role, content string) {
	if e.store == nil || content == "" {
		return
	}
	if err := e.store.SaveMessage(ctx, sessionID, role, content); err != nil {
		log.Printf("transcript write failed for session %s: %v", sessionID, err)
	}
}
