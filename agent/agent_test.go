package agent

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/Basemism/booking-agent/booking"
	"github.com/Basemism/booking-agent/handlers"
	"github.com/Basemism/booking-agent/parser"
	"github.com/Basemism/booking-agent/session"
	"github.com/Basemism/booking-agent/types"
)

type fakePlanner struct {
	plan       *parser.TurnPlan
	err        error
	gotHistory []*schema.Message
	gotState   types.SlotState
}

func (f *fakePlanner) NextTurn(_ context.Context, history []*schema.Message, current types.SlotState) (*parser.TurnPlan, error) {
	f.gotHistory = history
	f.gotState = current
	return f.plan, f.err
}

type fakeAPI struct {
	t             *testing.T
	getBooking    func(ref string) (*booking.Booking, error)
	updateBooking func(ref string, updates url.Values) (*booking.UpdateResult, error)
}

func (f *fakeAPI) CheckAvailability(context.Context, string, string) (*booking.Availability, error) {
	f.t.Fatal("unexpected CheckAvailability call")
	return nil, nil
}

func (f *fakeAPI) CreateBooking(context.Context, url.Values) (*booking.Booking, error) {
	f.t.Fatal("unexpected CreateBooking call")
	return nil, nil
}

func (f *fakeAPI) GetBooking(_ context.Context, ref string) (*booking.Booking, error) {
	if f.getBooking == nil {
		f.t.Fatal("unexpected GetBooking call")
	}
	return f.getBooking(ref)
}

func (f *fakeAPI) UpdateBooking(_ context.Context, ref string, updates url.Values) (*booking.UpdateResult, error) {
	if f.updateBooking == nil {
		f.t.Fatal("unexpected UpdateBooking call")
	}
	return f.updateBooking(ref, updates)
}

func (f *fakeAPI) CancelBooking(context.Context, string, string) (*booking.CancelResult, error) {
	f.t.Fatal("unexpected CancelBooking call")
	return nil, nil
}

func collectingPlan(msg string, mutate func(st *types.SlotState)) *parser.TurnPlan {
	st := types.NewSlotState()
	if mutate != nil {
		mutate(&st)
	}
	return &parser.TurnPlan{UpdatedState: st, NextMessage: msg}
}

func newAgent(planner parser.StateManager, api booking.API, opts ...Option) (*Agent, *session.Store) {
	store := session.NewMemoryStore()
	return New(planner, handlers.NewRouter(api), store, opts...), store
}

func TestCollectingTurnShowsAdvisory(t *testing.T) {
	planner := &fakePlanner{plan: collectingPlan(" What date would you like? ", func(st *types.SlotState) {
		st.Intent = types.IntentCreateBooking
	})}
	a, store := newAgent(planner, &fakeAPI{t: t})

	resp, err := a.Invoke(context.Background(), "book a table")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if resp.Acted {
		t.Error("collecting turn must not act")
	}
	if resp.Message != "What date would you like?" {
		t.Errorf("expected trimmed advisory, got %q", resp.Message)
	}
	if resp.State.Intent != types.IntentCreateBooking {
		t.Errorf("expected merged state returned, got %+v", resp.State)
	}

	sess, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.State.Intent != types.IntentCreateBooking {
		t.Errorf("merged state should persist, got %+v", sess.State)
	}
	if len(sess.History) != 1 || sess.History[0].Content != "book a table" {
		t.Errorf("expected user turn recorded, got %+v", sess.History)
	}
}

func TestReadyTurnDispatchesAndRecordsAck(t *testing.T) {
	planner := &fakePlanner{plan: collectingPlan("Ready to look that up.", func(st *types.SlotState) {
		st.Intent = types.IntentGetBooking
		st.BookingRef = "ABC1234"
		st.Status = types.StatusReady
	})}
	api := &fakeAPI{t: t, getBooking: func(ref string) (*booking.Booking, error) {
		return &booking.Booking{
			BookingReference: ref,
			Restaurant:       "TheHungryUnicorn",
			Status:           "confirmed",
		}, nil
	}}
	a, store := newAgent(planner, api)

	resp, err := a.Invoke(context.Background(), "check ABC1234")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if !resp.Acted {
		t.Error("ready turn should act")
	}
	if resp.Message == "Ready to look that up." {
		t.Error("ready turns must suppress the advisory message")
	}
	if resp.State.Intent != "" {
		t.Errorf("get_booking resets the context, got intent %q", resp.State.Intent)
	}

	sess, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// get_booking carries no ack, so the reset history stays empty
	if len(sess.History) != 0 {
		t.Errorf("expected reset history, got %+v", sess.History)
	}
}

func TestPlannerErrorFallsBack(t *testing.T) {
	planner := &fakePlanner{err: errors.New("timeout")}
	a, store := newAgent(planner, &fakeAPI{t: t})

	resp, err := a.Invoke(context.Background(), "book a table")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if resp.Message != FallbackMessage {
		t.Errorf("expected fallback, got %q", resp.Message)
	}
	if resp.Acted {
		t.Error("fallback must not act")
	}

	sess, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.State.Status != types.StatusCollecting {
		t.Errorf("state must survive unchanged, got %+v", sess.State)
	}
	if len(sess.History) != 1 {
		t.Errorf("user turn should still be recorded, got %+v", sess.History)
	}
}

func TestInvalidStatusFallsBack(t *testing.T) {
	plan := collectingPlan("ok", nil)
	plan.UpdatedState.Status = "done"
	planner := &fakePlanner{plan: plan}
	a, store := newAgent(planner, &fakeAPI{t: t})

	resp, err := a.Invoke(context.Background(), "hello")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if resp.Message != FallbackMessage {
		t.Errorf("expected fallback, got %q", resp.Message)
	}

	sess, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.State.Status != types.StatusCollecting {
		t.Errorf("rejected plan must not replace state, got %+v", sess.State)
	}
}

func TestUnknownIntentResets(t *testing.T) {
	planner := &fakePlanner{plan: collectingPlan("done", func(st *types.SlotState) {
		st.Intent = "greeting"
		st.VisitDate = "2025-08-11"
		st.Status = types.StatusReady
	})}
	a, store := newAgent(planner, &fakeAPI{t: t})

	resp, err := a.Invoke(context.Background(), "hi there")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if resp.Message != UnknownIntentMessage {
		t.Errorf("expected unknown intent message, got %q", resp.Message)
	}
	if resp.State.Intent != "" || resp.State.VisitDate != "" {
		t.Errorf("expected full reset, got %+v", resp.State)
	}

	sess, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(sess.History) != 0 {
		t.Errorf("expected history cleared, got %+v", sess.History)
	}
}

func TestUpdateFlowChainsWithAck(t *testing.T) {
	planner := &fakePlanner{plan: collectingPlan("Ready to update.", func(st *types.SlotState) {
		st.Intent = types.IntentUpdateBooking
		st.BookingRef = "ABC1234"
		st.VisitTime = "19:30:00"
		st.Status = types.StatusReady
	})}
	api := &fakeAPI{t: t, updateBooking: func(ref string, updates url.Values) (*booking.UpdateResult, error) {
		return &booking.UpdateResult{
			BookingReference: ref,
			Restaurant:       "TheHungryUnicorn",
			Status:           "updated",
			Updates:          map[string]any{"VisitTime": "19:30:00"},
		}, nil
	}}
	a, store := newAgent(planner, api)

	resp, err := a.Invoke(context.Background(), "move it to 7:30pm")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if resp.Ack != "I've updated your booking." {
		t.Errorf("unexpected ack %q", resp.Ack)
	}
	if resp.State.BookingRef != "ABC1234" {
		t.Errorf("expected BookingRef preserved, got %q", resp.State.BookingRef)
	}
	if resp.State.Intent != types.IntentUpdateBooking {
		t.Errorf("expected intent re-armed for chaining, got %q", resp.State.Intent)
	}

	sess, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// soft reset note plus the dispatched ack
	if len(sess.History) != 2 {
		t.Fatalf("expected two assistant entries, got %+v", sess.History)
	}
	for _, msg := range sess.History {
		if msg.Role != schema.Assistant {
			t.Errorf("expected assistant entries only, got %q", msg.Role)
		}
	}
}

func TestTrimmerNarrowsPlannerView(t *testing.T) {
	planner := &fakePlanner{plan: collectingPlan("noted", nil)}
	a, store := newAgent(planner, &fakeAPI{t: t}, WithTrimmer(session.KeepLastNTrimmer{N: 1}))

	ctx := context.Background()
	if _, err := a.Invoke(ctx, "first"); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if _, err := a.Invoke(ctx, "second"); err != nil {
		t.Fatalf("invoke: %v", err)
	}

	if len(planner.gotHistory) != 1 || planner.gotHistory[0].Content != "second" {
		t.Errorf("expected trimmed view with the latest turn, got %+v", planner.gotHistory)
	}

	sess, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(sess.History) != 2 {
		t.Errorf("full history must survive trimming, got %d entries", len(sess.History))
	}
}
