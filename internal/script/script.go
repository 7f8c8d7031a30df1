// Package script holds the scripted conversation a session replays. The
// built-in dialogue is the fixed TV-subscription cancellation exchange;
// alternate dialogues load from JSON validated by both the typed model and
// the embedded JSON schema.
package script

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tiger/hebrew-call-sim/internal/pipeline/contracts"
)

//go:embed schema.json
var rawSchema string

const schemaURL = "callsim://script/schema.json"

// DialogueTurn is one scripted utterance. Ordering in the script is fixed
// and significant.
type DialogueTurn struct {
	Speaker contracts.Speaker `json:"speaker"`
	Text    string            `json:"text"`
}

// Validate enforces speaker and non-empty text requirements.
func (t DialogueTurn) Validate() error {
	if err := t.Speaker.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("dialogue text is required")
	}
	return nil
}

// Default returns the fixed six-turn cancellation conversation.
func Default() []DialogueTurn {
	return []DialogueTurn{
		{Speaker: contracts.SpeakerCustomer, Text: "שלום, אני רוצה לבטל את המנוי לטלוויזיה שלי"},
		{Speaker: contracts.SpeakerSupport, Text: "שלום, אני מבין שאתה רוצה לבטל את המנוי. האם אתה יכול להסביר לי מה הבעיה?"},
		{Speaker: contracts.SpeakerCustomer, Text: "החשבונות יקרים מדי והשירות לא טוב"},
		{Speaker: contracts.SpeakerSupport, Text: "אני מבין את הבעיה. בואו נראה איך אפשר לעזור לך. יש לנו הצעות מיוחדות"},
		{Speaker: contracts.SpeakerCustomer, Text: "לא מעוניין, אני רוצה לבטל עכשיו"},
		{Speaker: contracts.SpeakerSupport, Text: "בסדר, אני אעבד את הביטול. תקבל אישור במייל תוך 24 שעות"},
	}
}

// Load reads a conversation script from a JSON file and validates it with
// the embedded schema plus the typed turn validators.
func Load(path string) ([]DialogueTurn, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse validates raw JSON script content and returns the typed turns.
func Parse(raw []byte) ([]DialogueTurn, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse script json: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return nil, fmt.Errorf("script schema validation: %w", err)
	}

	var turns []DialogueTurn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, fmt.Errorf("decode script turns: %w", err)
	}
	for i, turn := range turns {
		if err := turn.Validate(); err != nil {
			return nil, fmt.Errorf("script turn %d: %w", i+1, err)
		}
	}
	return turns, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(rawSchema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile script schema: %w", err)
	}
	return schema, nil
}
