// Package debrief asks a Gemini model for a short press briefing on a
// finished simulation run.
package debrief

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Herodot91/gov-simulator/internal/catalog"
	"github.com/Herodot91/gov-simulator/internal/models"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

//go:embed prompts/press_briefing.txt
var pressBriefingPrompt string

var pressBriefingTmpl = template.Must(template.New("press_briefing").Parse(pressBriefingPrompt))

type Briefer struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *zap.Logger
}

func NewBriefer(ctx context.Context, apiKey, modelName string, log *zap.Logger) (*Briefer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if log == nil {
		log = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Briefer{
		client: client,
		model:  client.GenerativeModel(modelName),
		log:    log,
	}, nil
}

func (b *Briefer) Close() {
	b.client.Close()
}

// Brief generates the press briefing for res.
func (b *Briefer) Brief(ctx context.Context, cat *catalog.Catalog, res *models.Result) (string, error) {
	prompt, err := BuildPrompt(cat, res)
	if err != nil {
		return "", err
	}
	b.log.Debug("requesting press briefing", zap.Int("prompt_bytes", len(prompt)))

	resp, err := b.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return strings.TrimSpace(out.String()), nil
}

// BuildPrompt renders the briefing prompt. Only applied decisions are
// listed; skipped and unaffordable scenarios are summarised by outcome.
func BuildPrompt(cat *catalog.Catalog, res *models.Result) (string, error) {
	decisions := make([]string, 0, len(res.Steps))
	for i, step := range res.Steps {
		sc, err := cat.ScenarioAt(i)
		if err != nil {
			return "", err
		}
		switch step.Outcome {
		case models.OutcomeApplied:
			opt, err := catalog.OptionFor(sc, step.Choice.Key)
			if err != nil {
				return "", err
			}
			line := fmt.Sprintf("%s: %s (cost %d; %s)", sc.Title, opt.Description, opt.Cost, opt.Effects)
			if step.Vote != nil {
				verdict := "failed"
				if step.Vote.Passed {
					verdict = "passed"
				}
				line += fmt.Sprintf(", public vote %s with %d%% turnout", verdict, step.Vote.Turnout)
			}
			decisions = append(decisions, line)
		case models.OutcomeInsufficientBudget:
			decisions = append(decisions, fmt.Sprintf("%s: no action, the budget could not cover option %s", sc.Title, step.Choice.Key))
		default:
			decisions = append(decisions, fmt.Sprintf("%s: no action taken", sc.Title))
		}
	}

	final := res.FinalScores()
	data := struct {
		Mode           models.Mode
		StartingBudget int
		FinalBudget    int
		FinalScores    string
		RiskLevel      string
		LastReaction   string
		Decisions      []string
	}{
		Mode:           res.Mode,
		StartingBudget: res.StartingBudget,
		FinalBudget:    res.FinalBudget,
		FinalScores:    final.String(),
		RiskLevel:      models.RiskLevel(final.Risk),
		LastReaction:   res.LastInternationalReaction,
		Decisions:      decisions,
	}

	var buf bytes.Buffer
	if err := pressBriefingTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
