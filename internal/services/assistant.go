package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrAssistantUnauthorized is returned when the hosted model rejects the API
// key (or none is configured). Callers surface it as the distinguished
// "Luce offline" state instead of a generic failure.
var ErrAssistantUnauthorized = errors.New("assistant not authorized")

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	defaultChatModel = "gemini-3-flash-preview"
	liveAudioModel   = "gemini-2.5-flash-native-audio-preview-12-2025"
)

const lucePersona = `Sei un assistente virtuale empatico e motivazionale di nome "Luce", specializzato nel supporto a persone che stanno seguendo un percorso di recupero o gestione di disturbi alimentari. Il tuo tono deve essere luminoso, incoraggiante, caloroso e mai giudicante.

REGOLE DI COMPORTAMENTO:
1. GENTILEZZA PRIMA DI TUTTO: Se l'utente riporta di non aver seguito la dieta, non usare mai parole come "fallimento", "errore" o "sbaglio". Usa termini come "momento di flessibilità", "piccolo intoppo" o "sfida".
2. MOTIVAZIONE VISIVA: Usa spesso emoji colorate per rendere il testo visivamente vivo e allegro.
3. GESTIONE DELLO "SGARRO" (BONUS): Se l'utente usa il suo bonus settimanale, fagli capire che è una parte normale di un rapporto sano con il cibo. Digli che la sua "streak" è salva e che è statə bravə a essere sincerə.
4. FOCUS SULLE EMOZIONI: Non limitarti a commentare il cibo. Chiedi come si sente e valida le sue emozioni.
5. NO CONSIGLI MEDICI: Non prescrivere calorie, diete specifiche o farmaci. In caso di grave difficoltà suggerisci con dolcezza di parlarne con il terapista o nutrizionista di fiducia.
6. STILE DI RISPOSTA: Mantieni le risposte brevi, ritmate e piene di energia positiva.
7. LINGUA: Rispondi sempre in italiano.`

// ChatTurn is one prior exchange in a conversation, role-tagged with
// RoleUser or RoleAssistant.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AssistantService struct {
	client    *genai.Client
	chatModel string
}

// NewAssistantService wraps a configured genai client. A nil client is a
// valid "not configured" state: Configured() reports false and Reply returns
// ErrAssistantUnauthorized.
func NewAssistantService(client *genai.Client, chatModel string) *AssistantService {
	if chatModel == "" {
		chatModel = defaultChatModel
	}
	return &AssistantService{
		client:    client,
		chatModel: chatModel,
	}
}

func (service *AssistantService) Configured() bool {
	return service.client != nil
}

// Reply sends the prior turns plus the new utterance to the hosted model and
// returns the assistant text.
func (service *AssistantService) Reply(ctx context.Context, history []ChatTurn, input string) (string, error) {
	if service.client == nil {
		return "", ErrAssistantUnauthorized
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("empty chat input")
	}

	contents := FormatChatContents(history, input)
	response, err := service.client.Models.GenerateContent(ctx, service.chatModel, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(lucePersona, genai.RoleModel),
		Temperature:       genai.Ptr[float32](0.8),
		TopP:              genai.Ptr[float32](0.9),
	})
	if err != nil {
		if isAuthError(err) {
			return "", ErrAssistantUnauthorized
		}
		return "", fmt.Errorf("assistant: calling GenerateContent: %w", err)
	}

	text := strings.TrimSpace(response.Text())
	if text == "" {
		return "", errors.New("assistant: empty response")
	}
	return text, nil
}

// FormatChatContents maps role-tagged turns to model contents, appending the
// new utterance as the final user turn. Assistant turns map to the model
// role; anything else is treated as the user.
func FormatChatContents(history []ChatTurn, input string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		var role genai.Role = genai.RoleUser
		if turn.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(content, role))
	}
	contents = append(contents, genai.NewContentFromText(input, genai.RoleUser))
	return contents
}

func isAuthError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 401 || apiErr.Code == 403
	}
	return false
}

// LiveSession is one realtime voice conversation. Audio payloads are opaque
// PCM16 blobs; capture and playback live entirely on the client.
type LiveSession struct {
	session *genai.Session
}

// ConnectLive opens a realtime audio session with the Luce persona.
func (service *AssistantService) ConnectLive(ctx context.Context) (*LiveSession, error) {
	if service.client == nil {
		return nil, ErrAssistantUnauthorized
	}

	session, err := service.client.Live.Connect(ctx, liveAudioModel, &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{genai.ModalityAudio},
		SpeechConfig: &genai.SpeechConfig{
			LanguageCode: "it-IT",
		},
		SystemInstruction: genai.NewContentFromText(lucePersona, genai.RoleModel),
	})
	if err != nil {
		if isAuthError(err) {
			return nil, ErrAssistantUnauthorized
		}
		return nil, fmt.Errorf("assistant: starting live session: %w", err)
	}
	return &LiveSession{session: session}, nil
}

// SendAudio forwards one PCM16 input chunk to the model.
func (live *LiveSession) SendAudio(pcm []byte) error {
	if err := live.session.SendRealtimeInput(genai.LiveRealtimeInput{
		Media: &genai.Blob{
			MIMEType: "audio/pcm;rate=16000",
			Data:     pcm,
		},
	}); err != nil {
		return fmt.Errorf("assistant: sending audio: %w", err)
	}
	return nil
}

// ReceiveAudio blocks for the next model turn and returns its audio chunks.
// A nil slice with nil error means the message carried no audio.
func (live *LiveSession) ReceiveAudio() ([][]byte, error) {
	message, err := live.session.Receive()
	if err != nil {
		return nil, fmt.Errorf("assistant: receiving live message: %w", err)
	}
	if message.ServerContent == nil || message.ServerContent.ModelTurn == nil {
		return nil, nil
	}

	chunks := make([][]byte, 0, len(message.ServerContent.ModelTurn.Parts))
	for _, part := range message.ServerContent.ModelTurn.Parts {
		if part.InlineData == nil || !strings.HasPrefix(part.InlineData.MIMEType, "audio/pcm") {
			continue
		}
		chunks = append(chunks, part.InlineData.Data)
	}
	return chunks, nil
}

func (live *LiveSession) Close() {
	if live.session != nil {
		live.session.Close()
	}
}
