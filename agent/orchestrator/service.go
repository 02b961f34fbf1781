package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/rs/zerolog/log"

	contractx "github.com/voxagenda/voxagenda/agent/contract"
	"github.com/voxagenda/voxagenda/agent/prompt"
	toolx "github.com/voxagenda/voxagenda/agent/tool"
)

// FallbackReply is spoken whenever a turn cannot be completed. The
// telephony provider always receives a success-shaped response; a raw
// error would stall or drop the live call.
const FallbackReply = "Perdona, ha habido un problema técnico. ¿Puedes repetir, por favor?"

// reminderReply re-engages a caller who has gone quiet.
const reminderReply = "¿Sigues ahí? Dime en qué puedo ayudarte."

// farewellMarker in the final reply signals the call can be hung up.
const farewellMarker = "hasta pronto"

const defaultModelTimeout = 30 * time.Second

type Config struct {
	Model        string
	ModelTimeout time.Duration
}

// Orchestrator drives one webhook turn: compose history, first model call,
// sequential tool phase, second model call, respond. It holds no state
// across turns; continuity lives in the transcript the caller re-sends.
type Orchestrator struct {
	model  contractx.ChatCompleter
	router *toolx.Router

	modelName string
	timeout   time.Duration
	system    string
}

func New(model contractx.ChatCompleter, router *toolx.Router, cfg Config) (*Orchestrator, error) {
	if model == nil {
		return nil, errors.New("chat completer is required")
	}
	if router == nil {
		return nil, errors.New("tool router is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("model name is required")
	}
	timeout := cfg.ModelTimeout
	if timeout <= 0 {
		timeout = defaultModelTimeout
	}
	return &Orchestrator{
		model:     model,
		router:    router,
		modelName: strings.TrimSpace(cfg.Model),
		timeout:   timeout,
		system:    prompt.System(),
	}, nil
}

// HandleTurn never fails: every error inside the turn resolves to the
// fixed fallback reply.
func (o *Orchestrator) HandleTurn(ctx context.Context, req contractx.TurnRequest) contractx.TurnResponse {
	resp := contractx.TurnResponse{
		ResponseID:      req.ResponseID,
		ContentComplete: true,
	}

	switch req.InteractionType {
	case contractx.InteractionResponseRequired:
	case contractx.InteractionReminderRequired:
		resp.Content = reminderReply
		return resp
	default:
		// keep-alives and transcript updates need no spoken reply
		return resp
	}

	started := time.Now()
	reply, tools, err := o.respond(ctx, req)
	if err != nil {
		log.Error().Err(err).
			Str("call_id", req.CallID).
			Int("response_id", req.ResponseID).
			Msg("turn failed, serving fallback")
		resp.Content = FallbackReply
		return resp
	}

	log.Info().
		Str("call_id", req.CallID).
		Int("response_id", req.ResponseID).
		Strs("tools", tools).
		Dur("latency", time.Since(started)).
		Msg("turn completed")

	resp.Content = reply
	resp.EndCall = strings.Contains(strings.ToLower(reply), farewellMarker)
	return resp
}

// respond runs the two-pass model exchange. Tool calls execute strictly in
// the order the model requested them; a later tool may depend on rows an
// earlier one just created.
func (o *Orchestrator) respond(ctx context.Context, req contractx.TurnRequest) (string, []string, error) {
	messages := o.compose(req)

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.modelName),
		Messages: messages,
		Tools:    toolx.Catalog(),
	}

	first, err := o.complete(ctx, params)
	if err != nil {
		return "", nil, fmt.Errorf("%w: first call: %v", contractx.ErrModelInvoke, err)
	}
	if len(first.Choices) == 0 {
		return "", nil, fmt.Errorf("%w: first call returned no choices", contractx.ErrModelInvoke)
	}

	msg := first.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		reply := strings.TrimSpace(msg.Content)
		if reply == "" {
			return "", nil, fmt.Errorf("%w: empty assistant reply", contractx.ErrModelInvoke)
		}
		return reply, nil, nil
	}

	messages = append(messages, msg.ToParam())
	executed := make([]string, 0, len(msg.ToolCalls))
	for _, call := range msg.ToolCalls {
		result := o.router.Dispatch(ctx, req.CallID, call.Function.Name, call.Function.Arguments)
		executed = append(executed, call.Function.Name)
		messages = append(messages, openai.ToolMessage(result, call.ID))
	}

	// second pass: fold the tool results into a spoken reply; no tools this
	// time, the model must answer in text
	second, err := o.complete(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.modelName),
		Messages: messages,
	})
	if err != nil {
		return "", executed, fmt.Errorf("%w: second call: %v", contractx.ErrModelInvoke, err)
	}
	if len(second.Choices) == 0 {
		return "", executed, fmt.Errorf("%w: second call returned no choices", contractx.ErrModelInvoke)
	}
	reply := strings.TrimSpace(second.Choices[0].Message.Content)
	if reply == "" {
		return "", executed, fmt.Errorf("%w: empty final reply", contractx.ErrModelInvoke)
	}
	return reply, executed, nil
}

// compose builds the ordered history: fixed system instruction, prior
// transcript, current utterance.
func (o *Orchestrator) compose(req contractx.TurnRequest) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Transcript)+2)
	messages = append(messages, openai.SystemMessage(o.system))
	for _, entry := range req.Transcript {
		content := strings.TrimSpace(entry.Content)
		if content == "" {
			continue
		}
		if entry.Role == "agent" || entry.Role == "assistant" {
			messages = append(messages, openai.AssistantMessage(content))
		} else {
			messages = append(messages, openai.UserMessage(content))
		}
	}
	if utterance := strings.TrimSpace(req.Utterance); utterance != "" {
		messages = append(messages, openai.UserMessage(utterance))
	}
	return messages
}

// complete wraps one model call with the per-call timeout budget so a slow
// provider cannot hang the conversation.
func (o *Orchestrator) complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return o.model.New(cctx, params)
}
