package query

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/agenthands/graphqa/internal/config"
	"github.com/agenthands/graphqa/internal/core/common"
	"github.com/agenthands/graphqa/internal/core/model"
	"github.com/agenthands/graphqa/internal/llm"
	"github.com/agenthands/graphqa/internal/metrics"
)

// NoAnswer is returned when the answering model has nothing to say.
const NoAnswer = "I don't know the answer."

const (
	stageCypher = "cypher_generation"
	stageQA     = "qa"
)

// GraphStore is the part of the store adapter the chain needs.
type GraphStore interface {
	Execute(ctx context.Context, statement string, params map[string]interface{}) (*model.QueryResult, error)
	DescribeSchema(ctx context.Context) (*model.SchemaDescription, error)
}

type Options struct {
	Verbose                 bool
	ReturnIntermediateSteps bool
	// AllowMutatingStatements lets generated writes reach the store. It defaults to true
	// in config; deployments exposed to untrusted questions should turn it off.
	AllowMutatingStatements bool
	ReturnDirect            bool
	TopK                    int
	MaxContextTokens        int
	IncludeTypes            []string
	ExcludeTypes            []string
	ModelTimeout            time.Duration
	StoreTimeout            time.Duration
}

func NewOptions(cfg *config.Config) Options {
	return Options{
		Verbose:                 cfg.Query.Verbose,
		ReturnIntermediateSteps: cfg.Query.ReturnIntermediateSteps,
		AllowMutatingStatements: cfg.Query.AllowMutatingStatements,
		ReturnDirect:            cfg.Query.ReturnDirect,
		TopK:                    cfg.Query.TopK,
		MaxContextTokens:        cfg.Query.MaxContextTokens,
		IncludeTypes:            cfg.Query.IncludeTypes,
		ExcludeTypes:            cfg.Query.ExcludeTypes,
		ModelTimeout:            cfg.Timeouts.Model.Duration,
		StoreTimeout:            cfg.Timeouts.Store.Duration,
	}
}

// Step is one intermediate artefact of a run: the generated statement or the rows fed
// to the answering model.
type Step struct {
	Query   string      `json:"query,omitempty"`
	Context []model.Row `json:"context,omitempty"`
}

type Answer struct {
	Question  string             `json:"question"`
	Text      string             `json:"answer"`
	State     State              `json:"state"`
	Statement string             `json:"statement,omitempty"`
	Result    *model.QueryResult `json:"result,omitempty"`
	Steps     []Step             `json:"intermediate_steps,omitempty"`
}

// Chain answers natural-language questions against the graph store: the model writes a
// Cypher statement, the store runs it, and the model phrases the rows as an answer.
type Chain struct {
	Store     GraphStore
	CypherLLM llm.LLMClient
	// QALLM phrases answers; nil means CypherLLM.
	QALLM   llm.LLMClient
	Prompts config.Prompts
	Options Options
	Logger  logrus.FieldLogger

	// Observer, when set, sees every state transition.
	Observer func(from, to State)
	// CountTokens overrides the cl100k_base counter used for MaxContextTokens.
	CountTokens TokenCounter
}

func NewChain(store GraphStore, client llm.LLMClient, prompts config.Prompts, opts Options, logger logrus.FieldLogger) *Chain {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if prompts.Cypher == "" {
		prompts.Cypher = config.DefaultCypherPrompt
	}
	if prompts.QA == "" {
		prompts.QA = config.DefaultQAPrompt
	}
	return &Chain{
		Store:     store,
		CypherLLM: client,
		Prompts:   prompts,
		Options:   opts,
		Logger:    logger,
	}
}

// run carries the state of one Run call.
type run struct {
	chain  *Chain
	answer *Answer
	log    logrus.FieldLogger
}

func (r *run) transition(to State) {
	from := r.answer.State
	r.answer.State = to
	if r.chain.Observer != nil {
		r.chain.Observer(from, to)
	}
	if to.Terminal() {
		metrics.QueryRuns.WithLabelValues(to.String()).Inc()
	}
}

func (r *run) fail(err error) (*Answer, error) {
	r.log.WithError(err).WithField("stage", r.answer.State.String()).Warn("Question answering failed")
	r.transition(Failed)
	return r.answer, err
}

// Run answers question. On failure the returned Answer is in state Failed and carries
// whatever was produced before the failing step.
func (c *Chain) Run(ctx context.Context, question string) (*Answer, error) {
	r := &run{
		chain:  c,
		answer: &Answer{Question: question, State: Idle},
		log:    c.Logger.WithField("question", question),
	}

	r.transition(GeneratingQuery)

	schema, err := c.describeSchema(ctx)
	if err != nil {
		return r.fail(err)
	}

	prompt := fmt.Sprintf(c.Prompts.Cypher, schema.String(), question)
	generated, err := c.generate(ctx, c.CypherLLM, stageCypher, prompt)
	if err != nil {
		return r.fail(err)
	}

	statement := ExtractStatement(generated)
	if statement == "" {
		return r.fail(ErrNoStatement)
	}
	r.answer.Statement = statement
	r.log = r.log.WithField("statement", statement)
	if c.Options.Verbose {
		r.log.Info("Generated Cypher")
	}
	if c.Options.ReturnIntermediateSteps {
		r.answer.Steps = append(r.answer.Steps, Step{Query: statement})
	}

	if !c.Options.AllowMutatingStatements && IsMutating(statement) {
		return r.fail(&PolicyViolationError{Statement: statement})
	}

	r.transition(Executing)

	result, err := c.execute(ctx, statement)
	if err != nil {
		return r.fail(err)
	}

	rows := c.contextRows(result)
	r.answer.Result = &model.QueryResult{Columns: result.Columns, Rows: rows}
	if c.Options.Verbose {
		r.log.WithField("rows", len(rows)).Infof("Full context: %v", rows)
	}
	if c.Options.ReturnIntermediateSteps {
		r.answer.Steps = append(r.answer.Steps, Step{Context: rows})
	}

	info, err := json.Marshal(rows)
	if err != nil {
		return r.fail(fmt.Errorf("failed to render query result: %w", err))
	}

	if c.Options.ReturnDirect {
		r.answer.Text = string(info)
		r.transition(Done)
		return r.answer, nil
	}

	r.transition(Formatting)

	qaClient := c.QALLM
	if qaClient == nil {
		qaClient = c.CypherLLM
	}
	text, err := c.generate(ctx, qaClient, stageQA, fmt.Sprintf(c.Prompts.QA, string(info), question))
	if err != nil {
		return r.fail(err)
	}
	if text = strings.TrimSpace(text); text == "" {
		text = NoAnswer
	}
	r.answer.Text = text

	r.transition(Done)
	return r.answer, nil
}

func (c *Chain) describeSchema(ctx context.Context) (*model.SchemaDescription, error) {
	ctx, cancel := withTimeout(ctx, c.Options.StoreTimeout)
	defer cancel()

	start := time.Now()
	schema, err := c.Store.DescribeSchema(ctx)
	metrics.ObserveStoreCall("describe_schema", start)
	if err != nil {
		return nil, err
	}
	return schema.Filter(c.Options.IncludeTypes, c.Options.ExcludeTypes), nil
}

func (c *Chain) execute(ctx context.Context, statement string) (*model.QueryResult, error) {
	ctx, cancel := withTimeout(ctx, c.Options.StoreTimeout)
	defer cancel()

	start := time.Now()
	result, err := c.Store.Execute(ctx, statement, nil)
	metrics.ObserveStoreCall("execute", start)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &model.QueryResult{}
	}
	return result, nil
}

func (c *Chain) generate(ctx context.Context, client llm.LLMClient, stage, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, c.Options.ModelTimeout)
	defer cancel()

	start := time.Now()
	out, err := client.Generate(ctx, prompt)
	metrics.ObserveModelCall(stage, start, err)
	if err != nil {
		return "", &llm.InvocationError{Stage: stage, Err: err}
	}
	return out, nil
}

// contextRows applies TopK and, when set, the token budget.
func (c *Chain) contextRows(result *model.QueryResult) []model.Row {
	rows := result.Truncate(c.Options.TopK).Rows
	if rows == nil {
		rows = []model.Row{}
	}
	if c.Options.MaxContextTokens <= 0 {
		return rows
	}

	count := c.CountTokens
	if count == nil {
		var err error
		if count, err = DefaultTokenCounter(); err != nil {
			c.Logger.WithError(err).Warn("Token budget disabled")
			return rows
		}
	}
	return fitRows(rows, c.Options.MaxContextTokens, count)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

var cypherPrefix = regexp.MustCompile(`(?i)^cypher\s+`)

// ExtractStatement pulls the Cypher statement out of a model response: the body of the
// first code fence when there is one, without a leading "cypher" tag or trailing semicolons.
func ExtractStatement(text string) string {
	text = common.StripCodeFence(text)
	text = cypherPrefix.ReplaceAllString(text, "")
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text), ";"))
}
