// Package aiparse extracts permit fields with a language model when the
// anchor-based parser cannot locate them. It is optional glue: the core
// parsing path never touches the network.
package aiparse

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/shinsei-trade/permit-ledger/internal/parse"
)

// Parser extracts permit fields from document text via the OpenAI API.
type Parser struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewParser creates a new AI fallback parser. timeout bounds each extraction
// call; zero disables the bound.
func NewParser(apiKey, model string, timeout time.Duration, logger *zap.Logger) *Parser {
	return &Parser{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// permitPayload is the strict response schema requested from the model.
type permitPayload struct {
	PermitNumber        string        `json:"permit_number"`
	IssueDate           string        `json:"issue_date"`
	ImporterName        string        `json:"importer_name"`
	TrackingNumber      string        `json:"tracking_number"`
	CustomsDuty         json.Number   `json:"customs_duty"`
	ConsumptionTax      json.Number   `json:"consumption_tax"`
	LocalConsumptionTax json.Number   `json:"local_consumption_tax"`
	Subtotal            json.Number   `json:"subtotal"`
	TotalAmount         json.Number   `json:"total_amount"`
	Items               []itemPayload `json:"items"`
}

type itemPayload struct {
	ItemName string      `json:"item_name"`
	Amount   json.Number `json:"amount"`
	Quantity json.Number `json:"quantity"`
	Unit     string      `json:"unit"`
}

// Parse asks the model to extract the permit fields from text and returns
// them in the same raw mapping the anchor parser produces, so the Builder
// treats both paths identically.
func (p *Parser) Parse(ctx context.Context, text string) (*parse.Fields, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert in reading Japanese customs import permits (輸入許可書). Extract all fields exactly as printed. Always respond with valid JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(text),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		p.logger.Error("AI extraction call failed", zap.Error(err))
		return nil, fmt.Errorf("AI extraction failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no AI response")
	}

	var payload permitPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return payload.toFields(), nil
}

func (pl *permitPayload) toFields() *parse.Fields {
	fields := &parse.Fields{Values: map[string]string{
		parse.FieldPermitNumber:        pl.PermitNumber,
		parse.FieldIssueDate:           pl.IssueDate,
		parse.FieldImporterName:        pl.ImporterName,
		parse.FieldTrackingNumber:      pl.TrackingNumber,
		parse.FieldCustomsDuty:         numberOrZero(pl.CustomsDuty),
		parse.FieldConsumptionTax:      numberOrZero(pl.ConsumptionTax),
		parse.FieldLocalConsumptionTax: numberOrZero(pl.LocalConsumptionTax),
		parse.FieldSubtotal:            numberOrZero(pl.Subtotal),
		parse.FieldTotalAmount:         numberOrZero(pl.TotalAmount),
	}}
	for _, item := range pl.Items {
		quantity := item.Quantity
		if quantity == "" {
			quantity = "1"
		}
		fields.Items = append(fields.Items, parse.RawItem{
			Name:     item.ItemName,
			Amount:   numberOrZero(item.Amount),
			Quantity: quantity.String(),
			Unit:     item.Unit,
		})
	}
	return fields
}

func numberOrZero(n json.Number) string {
	if n == "" {
		return "0"
	}
	return n.String()
}

func buildPrompt(text string) string {
	return fmt.Sprintf(`Extract the following fields from this Japanese customs import permit text:

%s

Return JSON with this exact structure:
{
  "permit_number": "alphanumeric permit number, e.g. YP5507887XX",
  "issue_date": "YYYY-MM-DD",
  "importer_name": "importer name",
  "tracking_number": "tracking number or empty string",
  "customs_duty": integer yen without separators,
  "consumption_tax": integer yen without separators,
  "local_consumption_tax": integer yen without separators,
  "subtotal": integer yen without separators,
  "total_amount": integer yen without separators,
  "items": [{"item_name": "string", "amount": integer, "quantity": number, "unit": "string"}]
}

Use 0 for amounts that are not printed and "" for missing text fields. Do not guess values.`, text)
}
