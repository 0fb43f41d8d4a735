package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/subscope/internal/domain"
	"github.com/dvloznov/subscope/internal/statement"
)

// Step is a single stage of the analysis pipeline.
type Step interface {
	Execute(ctx context.Context, state *AnalysisState) error
}

// AnalysisState holds the shared state across pipeline steps for one
// uploaded statement. One upload drives one sequential run; a failure at any
// step aborts the run and is reported to the caller.
type AnalysisState struct {
	Raw           []byte
	Records       []domain.TransactionRecord
	Subscriptions []domain.Subscription
}

// LoadStatementStep parses the uploaded bytes into transaction records.
type LoadStatementStep struct{}

func (s *LoadStatementStep) Execute(ctx context.Context, state *AnalysisState) error {
	records, err := statement.Load(state.Raw)
	if err != nil {
		return err
	}
	state.Records = records
	return nil
}

// DetectSubscriptionsStep sends the records to the model and normalizes its
// response into subscriptions.
type DetectSubscriptionsStep struct {
	Analyzer *Analyzer
}

func (s *DetectSubscriptionsStep) Execute(ctx context.Context, state *AnalysisState) error {
	subs, err := s.Analyzer.Extract(ctx, state.Records)
	if err != nil {
		return err
	}
	state.Subscriptions = subs
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *AnalysisState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewAnalysisPipeline creates the standard load-then-detect pipeline for one
// uploaded statement.
func NewAnalysisPipeline(a *Analyzer) *Pipeline {
	return NewPipeline(
		&LoadStatementStep{},
		&DetectSubscriptionsStep{Analyzer: a},
	)
}

// AnalyzeStatement runs the full analysis pipeline on raw statement bytes
// and returns the detected subscriptions.
func AnalyzeStatement(ctx context.Context, a *Analyzer, raw []byte) ([]domain.Subscription, error) {
	state := &AnalysisState{Raw: raw}
	if err := NewAnalysisPipeline(a).Execute(ctx, state); err != nil {
		return nil, err
	}
	return state.Subscriptions, nil
}
