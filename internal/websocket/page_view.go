package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"arrow-be/internal/chat"
	"arrow-be/internal/directory"
	"arrow-be/internal/dto"
	"arrow-be/internal/entity"
	"arrow-be/internal/mapper"
	"arrow-be/internal/pkg/logger"
	"arrow-be/internal/pkg/serverutils"
	"arrow-be/internal/service"
	"arrow-be/internal/session"
	"arrow-be/pkg/livequery"

	"github.com/google/uuid"
)

// Deps are the services a page view drives.
type Deps struct {
	Feed     livequery.Feed
	Auth     service.IAuthService
	Pitches  service.IPitchService
	Interest service.IInterestService
	Chat     service.IChatService
}

// PageView is one open page. It owns the session stream of the page and the
// one data component the route guard initializes for it.
type PageView struct {
	page   session.Page
	out    Outbox
	deps   Deps
	hub    *Hub
	logger logger.ILogger

	provider *session.Provider
	monitor  *session.Monitor

	mu        sync.Mutex
	ctx       context.Context
	identity  *session.Identity
	directory *directory.Directory
	list      *chat.ConversationList
	chat      *chat.Session
}

func NewPageView(page session.Page, out Outbox, deps Deps, hub *Hub, log logger.ILogger) *PageView {
	pv := &PageView{
		page:     page,
		out:      out,
		deps:     deps,
		hub:      hub,
		logger:   log,
		provider: session.NewProvider(),
	}
	pv.monitor = session.NewMonitor(page, pv, map[session.Page]session.Initializer{
		session.PageFeed: pv.initFeed,
		session.PageChat: pv.initChat,
	})
	return pv
}

// Start runs the route guard on the session stream and publishes the
// handshake identity (nil when the socket carried no valid token).
func (pv *PageView) Start(ctx context.Context, initial *session.Identity) {
	pv.mu.Lock()
	pv.ctx = ctx
	pv.mu.Unlock()

	go pv.monitor.Run(ctx, pv.provider.OnSessionChange())
	pv.provider.Set(initial)
}

// SetIdentity feeds a session change into the page's stream.
func (pv *PageView) SetIdentity(id *session.Identity) {
	pv.provider.Set(id)
}

// Close tears down every live subscription of the page.
func (pv *PageView) Close() {
	pv.teardown()
	pv.provider.Close()
	if pv.hub != nil {
		pv.hub.Unbind(pv)
	}
}

// Redirect implements session.Navigator.
func (pv *PageView) Redirect(to string) {
	pv.teardown()
	if pv.hub != nil {
		pv.hub.Unbind(pv)
	}
	pv.mu.Lock()
	pv.identity = nil
	pv.mu.Unlock()

	pv.out.Push(Frame{Type: FrameRedirect, Data: redirectData{To: to}})
}

// ShowIdentity implements session.Navigator.
func (pv *PageView) ShowIdentity(id *session.Identity) {
	pv.mu.Lock()
	changed := !sameUser(pv.identity, id)
	pv.identity = id
	pv.mu.Unlock()

	if changed {
		pv.teardown()
	}
	if pv.hub != nil {
		if id != nil {
			pv.hub.Bind(pv, id.UserId)
		} else {
			pv.hub.Unbind(pv)
		}
	}

	data := identityData{}
	if id != nil {
		data.User = &dto.SessionUser{Id: id.UserId, Email: id.Email}
	}
	pv.out.Push(Frame{Type: FrameIdentity, Data: data})
}

func sameUser(a, b *session.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.UserId == b.UserId
}

func (pv *PageView) teardown() {
	pv.install(nil, nil, nil)
}

// install swaps in the page's components and closes the ones they replace, so
// a re-delivered session never leaves a second live subscription behind.
func (pv *PageView) install(dir *directory.Directory, list *chat.ConversationList, cs *chat.Session) {
	pv.mu.Lock()
	oldList, oldChat := pv.list, pv.chat
	pv.directory, pv.list, pv.chat = dir, list, cs
	pv.mu.Unlock()

	if oldChat != nil {
		oldChat.Close()
	}
	if oldList != nil {
		oldList.Close()
	}
}

func (pv *PageView) initFeed(ctx context.Context, id *session.Identity) {
	dir := directory.New()
	pv.install(dir, nil, nil)

	view := dir.Load(ctx, pv.deps.Pitches.Load)
	if view.State == directory.StateError {
		pv.logger.Warn("PageView", "Pitch load failed", map[string]interface{}{"error": view.Error})
	}
	pv.out.Push(Frame{Type: FramePitches, Data: view})
}

func (pv *PageView) initChat(ctx context.Context, id *session.Identity) {
	list := chat.NewConversationList(pv.deps.Feed, pv.deps.Chat, pv)
	cs := chat.NewSession(pv.deps.Feed, pv.deps.Chat, id, pv)

	pv.install(nil, list, cs)

	if err := list.Start(ctx, id); err != nil {
		pv.logger.Warn("PageView", "Conversation subscription failed", map[string]interface{}{"error": err.Error()})
	}
}

// RenderConversations implements chat.Renderer.
func (pv *PageView) RenderConversations(view chat.ConversationsView) {
	pv.out.Push(Frame{Type: FrameConversations, Data: view})
}

// RenderMessages implements chat.Renderer.
func (pv *PageView) RenderMessages(view chat.MessagesView) {
	pv.out.Push(Frame{Type: FrameMessages, Data: view})
}

func (pv *PageView) pushError(err error) {
	pv.out.Push(Frame{Type: FrameError, Data: errorData{Message: serverutils.StripProviderPrefix(err.Error())}})
}

// HandleFrame dispatches one inbound frame.
func (pv *PageView) HandleFrame(ctx context.Context, raw []byte) {
	var in inboundFrame
	if err := json.Unmarshal(raw, &in); err != nil {
		pv.pushError(fmt.Errorf("malformed frame: %w", err))
		return
	}

	var err error
	switch in.Type {
	case FrameFilter:
		err = pv.handleFilter(in.Data)
	case FrameExpress:
		err = pv.handleInterest(ctx, in.Data)
	case FrameSelect:
		err = pv.handleSelect(ctx, in.Data)
	case FrameSend:
		pv.handleSend(ctx, in.Data)
	case FrameSignIn:
		err = pv.handleSignIn(in.Data)
	case FrameSignOut:
		err = pv.handleSignOut(ctx)
	default:
		err = fmt.Errorf("unknown frame type %q", in.Type)
	}
	if err != nil {
		pv.pushError(err)
	}
}

func decode(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("malformed frame data: %w", err)
	}
	return nil
}

func (pv *PageView) handleFilter(data json.RawMessage) error {
	var req filterRequest
	if err := decode(data, &req); err != nil {
		return err
	}

	pv.mu.Lock()
	dir := pv.directory
	pv.mu.Unlock()
	if dir == nil {
		return fmt.Errorf("pitch list is not loaded on this page")
	}

	pv.out.Push(Frame{Type: FramePitches, Data: dir.Filter(req.Query)})
	return nil
}

func (pv *PageView) handleInterest(ctx context.Context, data json.RawMessage) error {
	var req interestRequest
	if err := decode(data, &req); err != nil {
		return err
	}

	id := pv.provider.Current()
	if session.Require(id) != nil {
		pv.Redirect(session.SignInPath)
		return nil
	}

	result, err := pv.deps.Interest.ExpressInterest(ctx, id, req.PitchId)
	if err != nil {
		return err
	}
	pv.out.Push(Frame{Type: FrameInterest, Data: interestData{
		Conversation: mapper.ConversationToResponse(result.Conversation, id.UserId),
		Created:      result.Created,
	}})
	return nil
}

func (pv *PageView) handleSelect(ctx context.Context, data json.RawMessage) error {
	var req selectRequest
	if err := decode(data, &req); err != nil {
		return err
	}

	pv.mu.Lock()
	list, cs, pageCtx, id := pv.list, pv.chat, pv.ctx, pv.identity
	pv.mu.Unlock()
	if list == nil || cs == nil {
		return fmt.Errorf("conversations are not loaded on this page")
	}

	conv, ok := list.Lookup(req.ConversationId)
	if !ok {
		var err error
		if conv, err = pv.deps.Chat.GetConversation(ctx, id, req.ConversationId); err != nil {
			return err
		}
	}
	return cs.Select(pageCtx, conv)
}

func (pv *PageView) handleSend(ctx context.Context, data json.RawMessage) {
	var req sendRequest
	if err := decode(data, &req); err != nil {
		pv.pushError(err)
		return
	}

	pv.mu.Lock()
	cs := pv.chat
	pv.mu.Unlock()

	var (
		msg *entity.Message
		err error
	)
	if cs == nil {
		err = chat.ErrNoActiveConversation
	} else {
		msg, err = cs.Send(ctx, req.Text)
	}
	if err != nil {
		pv.out.Push(Frame{Type: FrameSendError, Data: sendErrorData{Message: err.Error(), Text: req.Text}})
		return
	}
	pv.out.Push(Frame{Type: FrameSent, Data: sentData{MessageId: msg.Id}})
}

func (pv *PageView) handleSignIn(data json.RawMessage) error {
	var req signInRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	id, err := pv.deps.Auth.Authenticate(req.Token)
	if err != nil {
		return err
	}
	pv.provider.Set(id)
	return nil
}

func (pv *PageView) handleSignOut(ctx context.Context) error {
	id := pv.provider.Current()
	if id == nil {
		pv.provider.Set(nil)
		return nil
	}
	// Signing out through the hub reaches this view too.
	if err := pv.deps.Auth.SignOut(ctx, id); err != nil {
		return err
	}
	pv.provider.Set(nil)
	return nil
}

// UserId of the bound identity, uuid.Nil when signed out.
func (pv *PageView) UserId() uuid.UUID {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	if pv.identity == nil {
		return uuid.Nil
	}
	return pv.identity.UserId
}
