package services

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestAssistantNilClientReportsUnauthorized(t *testing.T) {
	service := NewAssistantService(nil, "")

	if service.Configured() {
		t.Fatal("nil client must report unconfigured")
	}
	if _, err := service.Reply(context.Background(), nil, "ciao"); !errors.Is(err, ErrAssistantUnauthorized) {
		t.Fatalf("Reply() error = %v, want ErrAssistantUnauthorized", err)
	}
	if _, err := service.ConnectLive(context.Background()); !errors.Is(err, ErrAssistantUnauthorized) {
		t.Fatalf("ConnectLive() error = %v, want ErrAssistantUnauthorized", err)
	}
}

func TestFormatChatContents(t *testing.T) {
	history := []ChatTurn{
		{Role: RoleUser, Content: "Ciao Luce!"},
		{Role: RoleAssistant, Content: "Ciao! Come stai oggi? ✨"},
		{Role: RoleAssistant, Content: "   "},
		{Role: "system", Content: "stray role"},
	}

	contents := FormatChatContents(history, "Ho usato il bonus")
	if len(contents) != 4 {
		t.Fatalf("got %d contents, want 4 (blank turn dropped)", len(contents))
	}
	if contents[0].Role != string(genai.RoleUser) {
		t.Fatalf("first role = %q, want user", contents[0].Role)
	}
	if contents[1].Role != string(genai.RoleModel) {
		t.Fatalf("assistant turn role = %q, want model", contents[1].Role)
	}
	if contents[2].Role != string(genai.RoleUser) {
		t.Fatalf("unknown role must map to user, got %q", contents[2].Role)
	}

	final := contents[len(contents)-1]
	if final.Role != string(genai.RoleUser) {
		t.Fatalf("final role = %q, want user", final.Role)
	}
	if len(final.Parts) == 0 || final.Parts[0].Text != "Ho usato il bonus" {
		t.Fatal("final content must carry the new utterance")
	}
}

func TestIsAuthError(t *testing.T) {
	if !isAuthError(genai.APIError{Code: 401}) {
		t.Fatal("401 is an auth failure")
	}
	if !isAuthError(genai.APIError{Code: 403}) {
		t.Fatal("403 is an auth failure")
	}
	if isAuthError(genai.APIError{Code: 429}) {
		t.Fatal("429 is not an auth failure")
	}
	if isAuthError(errors.New("timeout")) {
		t.Fatal("plain errors are not auth failures")
	}
}
