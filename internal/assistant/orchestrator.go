package assistant

import (
	"context"
	"time"

	"github.com/qmuntal/stateless"

	"github.com/portiq/assist-go/internal/conversation"
	"github.com/portiq/assist-go/internal/history"
	"github.com/portiq/assist-go/internal/logger"
	"github.com/portiq/assist-go/internal/metrics"
)

// Flow states. Each send or action execution runs its own state machine, so
// concurrent requests never share lifecycle state: responses may land out of
// send order, which is accepted — each reply is self-contained and the only
// guaranteed ordering is that a user's message precedes its own response.
type flowState stateless.State

var (
	stateReady    flowState = "Ready"
	stateAwaiting flowState = "AwaitingBackend"
	stateDone     flowState = "Done"
	stateFailed   flowState = "Failed"
)

// Flow triggers.
type flowTrigger stateless.Trigger

var (
	triggerDispatch       flowTrigger = "Dispatch"
	triggerBackendReplied flowTrigger = "BackendReplied"
	triggerBackendFailed  flowTrigger = "BackendFailed"
)

// Orchestrator drives the send-message and execute-action flows for one
// conversation store. archive and m may be nil.
type Orchestrator struct {
	store   *conversation.Store
	backend Backend
	archive *history.Archive
	m       *metrics.Metrics
}

// NewOrchestrator wires a store to a backend.
func NewOrchestrator(store *conversation.Store, backend Backend, archive *history.Archive, m *metrics.Metrics) *Orchestrator {
	o := &Orchestrator{store: store, backend: backend, archive: archive, m: m}
	if m != nil {
		store.OnEvict(func(n int) { m.TranscriptEvictionsTotal.Add(float64(n)) })
	}
	return o
}

// Store exposes the underlying conversation store.
func (o *Orchestrator) Store() *conversation.Store { return o.store }

// SendMessage runs the full send flow: the user's message is appended and
// the processing flag raised before any network call, then the backend is
// asked for a reply. Backend failures never escape; they become an
// apologetic assistant message. Returns the appended assistant message.
func (o *Orchestrator) SendMessage(ctx context.Context, text string) conversation.Message {
	user := o.store.AddMessage(conversation.Message{Role: conversation.RoleUser, Content: text})
	o.archiveMessage(user)
	o.store.SetProcessing(true)
	defer o.store.SetProcessing(false)

	req := MessageRequest{
		Message:   text,
		SessionID: o.store.SessionID(),
	}
	if c := o.store.Context(); !c.IsZero() {
		req.Context = &c
	}

	var (
		reply  *Reply
		result conversation.Message
	)

	fsm := stateless.NewStateMachine(stateReady)
	fsm.Configure(stateReady).
		Permit(triggerDispatch, stateAwaiting)

	fsm.Configure(stateAwaiting).
		OnEntry(func(c context.Context, _ ...any) error {
			start := time.Now()
			r, err := o.backend.SendMessage(c, req)
			o.observe("message", start, err)
			if err != nil {
				logger.L.Error("assistant send failed", "session_id", req.SessionID, "error", err)
				return fsm.FireCtx(c, triggerBackendFailed, err)
			}
			reply = r
			return fsm.FireCtx(c, triggerBackendReplied)
		}).
		Permit(triggerBackendReplied, stateDone).
		Permit(triggerBackendFailed, stateFailed)

	fsm.Configure(stateDone).
		OnEntry(func(context.Context, ...any) error {
			if reply.Context != nil {
				o.store.UpdateContext(reply.Context.Type, reply.Context.Data)
			}
			result = o.store.AddMessage(conversation.Message{
				Role:    conversation.RoleAssistant,
				Content: reply.Message,
				Cards:   reply.Cards,
				Actions: reply.Actions,
			})
			o.archiveMessage(result)
			return nil
		})

	fsm.Configure(stateFailed).
		OnEntry(func(_ context.Context, args ...any) error {
			err := args[0].(error)
			result = o.store.AddMessage(conversation.Message{
				Role:    conversation.RoleAssistant,
				Content: "I'm sorry, I couldn't process that request. Error: " + err.Error(),
			})
			o.archiveMessage(result)
			return nil
		})

	if err := fsm.FireCtx(ctx, triggerDispatch); err != nil {
		logger.L.Warn("send flow fire error", "error", err)
	}
	return result
}

// ExecuteAction runs a suggested action: a system "Executing" message is
// appended and processing raised before the backend call; the result or
// error lands as an assistant message. Duplicate invocations execute
// duplicately; deduplication is the caller's concern.
func (o *Orchestrator) ExecuteAction(ctx context.Context, action conversation.Action) conversation.Message {
	label := action.Label
	if label == "" {
		label = action.Action
	}
	sys := o.store.AddMessage(conversation.Message{
		Role:    conversation.RoleSystem,
		Content: "Executing: " + label,
	})
	o.archiveMessage(sys)
	o.store.SetProcessing(true)
	defer o.store.SetProcessing(false)

	var result conversation.Message

	fsm := stateless.NewStateMachine(stateReady)
	fsm.Configure(stateReady).
		Permit(triggerDispatch, stateAwaiting)

	fsm.Configure(stateAwaiting).
		OnEntry(func(c context.Context, _ ...any) error {
			start := time.Now()
			res, err := o.backend.ExecuteAction(c, ActionRequest{Action: action.Action, Params: action.Params})
			o.observe("action", start, err)
			if err != nil {
				logger.L.Error("action execution failed", "action", action.Action, "error", err)
				return fsm.FireCtx(c, triggerBackendFailed, err)
			}
			return fsm.FireCtx(c, triggerBackendReplied, res)
		}).
		Permit(triggerBackendReplied, stateDone).
		Permit(triggerBackendFailed, stateFailed)

	fsm.Configure(stateDone).
		OnEntry(func(_ context.Context, args ...any) error {
			res := args[0].(*ActionResult)
			result = o.store.AddMessage(conversation.Message{
				Role:    conversation.RoleAssistant,
				Content: res.Message,
			})
			o.archiveMessage(result)
			return nil
		})

	fsm.Configure(stateFailed).
		OnEntry(func(_ context.Context, args ...any) error {
			err := args[0].(error)
			result = o.store.AddMessage(conversation.Message{
				Role:    conversation.RoleAssistant,
				Content: "I'm sorry, I couldn't execute \"" + label + "\". Error: " + err.Error(),
			})
			o.archiveMessage(result)
			return nil
		})

	if err := fsm.FireCtx(ctx, triggerDispatch); err != nil {
		logger.L.Warn("action flow fire error", "error", err)
	}
	return result
}

// Clear empties the conversation and rotates the session id.
func (o *Orchestrator) Clear() {
	o.store.ClearConversation()
}

func (o *Orchestrator) archiveMessage(msg conversation.Message) {
	if o.archive == nil {
		return
	}
	o.archive.Save(o.store.SessionID(), string(msg.Role), msg.Content, msg.Timestamp)
}

func (o *Orchestrator) observe(flow string, start time.Time, err error) {
	if o.m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	o.m.AssistantRequestsTotal.WithLabelValues(flow, outcome).Inc()
	o.m.AssistantRequestSeconds.WithLabelValues(flow).Observe(time.Since(start).Seconds())
}
