package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/MacTechSolutionsLLC/sctm-audit/internal/chat"
	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
)

func TestControlSelectedMsgRoutedToAgent(t *testing.T) {
	// Create an AppModel with a minimal chat model
	app := newAppModel()

	// Manually set up a mock agent model (use nil agent/ctx since we just need Update to work)
	app.agentModel = chat.NewModel(nil, nil)
	app.agentInitialized = true
	app.width = 120
	app.height = 30

	// Create a test control
	testControl := &model.AuditItem{
		ControlAuditResult: model.ControlAuditResult{
			ControlID:          "3.1.1",
			Family:             "AC",
			Requirement:        "Limit system access to authorized users",
			ClaimedStatus:      model.StatusImplemented,
			VerifiedStatus:     model.StatusImplemented,
			VerificationStatus: model.VerificationVerified,
			ComplianceScore:    100,
			LastVerified:       time.Now(),
		},
	}

	// Send ControlSelectedMsg to AppModel
	msg := model.ControlSelectedMsg{Control: testControl}
	newApp, _ := app.Update(msg)

	updatedApp := newApp.(AppModel)

	// Check if the agent model received the message
	// We need to check the chat model's internal state
	if updatedApp.agentModel == nil {
		t.Fatal("agentModel should not be nil")
	}

	// Type assert to chat.Model to check currentControl
	chatModel, ok := updatedApp.agentModel.(chat.Model)
	if !ok {
		t.Fatalf("agentModel is not chat.Model, got %T", updatedApp.agentModel)
	}

	// The chat model should now have the control context
	if chatModel.CurrentControl() == nil {
		t.Error("control context was not set in chat model after ControlSelectedMsg")
	} else if chatModel.CurrentControl().ControlID != "3.1.1" {
		t.Errorf("Expected 3.1.1, got %s", chatModel.CurrentControl().ControlID)
	}
}

func TestControlSelectedMsgNotRoutedWhenAgentNil(t *testing.T) {
	// Create an AppModel WITHOUT an agent model
	app := newAppModel()
	// agentModel is nil by default

	// Create a test control
	testControl := &model.AuditItem{
		ControlAuditResult: model.ControlAuditResult{
			ControlID: "3.13.11",
		},
	}

	// Send ControlSelectedMsg - should not panic
	msg := model.ControlSelectedMsg{Control: testControl}
	newApp, cmd := app.Update(msg)

	// Should return without error
	if newApp == nil {
		t.Error("Update returned nil model")
	}

	// Command should be empty batch (no-op)
	if cmd != nil {
		// tea.Batch with empty slice returns nil, so this is expected
		t.Log("Command returned (expected nil or empty batch)")
	}
}

func TestClosureCapturesCorrectValue(t *testing.T) {
	// Simulate what happens in the browser when entering detail view
	// This tests that the closure correctly captures the item variable

	testControl := model.AuditItem{
		ControlAuditResult: model.ControlAuditResult{
			ControlID:   "3.5.3",
			Family:      "IA",
			Requirement: "Use multifactor authentication",
		},
	}

	// Simulate the closure creation (like the detail-view enter handler)
	item := testControl // Local variable
	ctrlMsg := func() interface{} { return model.ControlSelectedMsg{Control: &item} }

	// Execute the closure (simulating what Bubble Tea does)
	result := ctrlMsg()

	msg, ok := result.(model.ControlSelectedMsg)
	if !ok {
		t.Fatalf("Expected ControlSelectedMsg, got %T", result)
	}

	if msg.Control == nil {
		t.Fatal("Control should not be nil")
	}

	if msg.Control.ControlID != "3.5.3" {
		t.Errorf("Expected 3.5.3, got %s", msg.Control.ControlID)
	}

	// Also verify the pointer is valid
	if msg.Control.Family != "IA" {
		t.Errorf("Expected IA, got %s", msg.Control.Family)
	}
}

func TestClosureWithinIfBlock(t *testing.T) {
	// More precise simulation of the if block pattern in the browser
	type Item struct {
		ID   string
		Name string
	}

	getItem := func() (Item, bool) {
		return Item{ID: "test-id", Name: "Test Name"}, true
	}

	var capturedClosure func() interface{}

	if item, ok := getItem(); ok {
		// This mirrors the exact pattern in the detail-view handler
		capturedClosure = func() interface{} { return &item }
	}

	if capturedClosure == nil {
		t.Fatal("Closure should have been created")
	}

	// Execute the closure after the if block
	result := capturedClosure()
	ptr, ok := result.(*Item)
	if !ok {
		t.Fatalf("Expected *Item, got %T", result)
	}

	if ptr.ID != "test-id" {
		t.Errorf("Expected test-id, got %s", ptr.ID)
	}
}

func TestControlContextPreservedAcrossAgentInit(t *testing.T) {
	// This test verifies that control context is preserved when user navigates
	// to detail view BEFORE agent finishes initializing

	// Create AppModel WITHOUT agent model (simulating before agent init completes)
	app := newAppModel()
	// agentModel is nil at this point

	// Create a control
	testControl := model.AuditItem{
		ControlAuditResult: model.ControlAuditResult{
			ControlID:   "3.14.1",
			Family:      "SI",
			Requirement: "Identify and correct system flaws",
		},
	}

	// User navigates to detail view - ControlSelectedMsg is sent
	item := testControl
	ctrlCmd := func() tea.Msg { return model.ControlSelectedMsg{Control: &item} }
	msg := ctrlCmd()
	newApp, _ := app.Update(msg)
	app = newApp.(AppModel)

	// Verify pendingControl is stored
	if app.pendingControl == nil {
		t.Fatal("pendingControl should be stored when agent is not initialized")
	}
	if app.pendingControl.ControlID != "3.14.1" {
		t.Errorf("Expected 3.14.1, got %s", app.pendingControl.ControlID)
	}

	// Now agent initializes (simulating agentInitMsg)
	// We need to simulate the actual agentInitMsg handling
	initMsg := agentInitMsg{agent: nil, ctx: nil}
	newApp2, _ := app.Update(initMsg)
	app = newApp2.(AppModel)

	// Send window size
	sizeMsg := tea.WindowSizeMsg{Width: 45, Height: 30}
	newApp3, _ := app.Update(sizeMsg)
	app = newApp3.(AppModel)

	// Check if the chat model has the control context
	chatModel := app.agentModel.(chat.Model)
	if chatModel.CurrentControl() == nil {
		t.Fatal("control context should be preserved after agent initialization")
	}
	if chatModel.CurrentControl().ControlID != "3.14.1" {
		t.Errorf("Expected 3.14.1, got %s", chatModel.CurrentControl().ControlID)
	}
	t.Log("SUCCESS: control context is preserved across agent initialization")
}

func TestFullMessageFlow(t *testing.T) {
	// This test simulates the full message flow from the browser returning a
	// command to the chat model receiving the ControlSelectedMsg

	// Create AppModel with chat model
	app := newAppModel()
	app.agentModel = chat.NewModel(nil, nil)
	app.agentInitialized = true
	app.width = 120
	app.height = 30

	// Initialize the chat model with proper dimensions
	initCmd := app.agentModel.Init()
	if initCmd != nil {
		// Execute init command if any
		_ = initCmd()
	}
	sizeMsg := tea.WindowSizeMsg{Width: 45, Height: 30}
	app.agentModel, _ = app.agentModel.Update(sizeMsg)

	// Create a control and simulate the command that would be returned by the browser
	testControl := model.AuditItem{
		ControlAuditResult: model.ControlAuditResult{
			ControlID:          "3.1.1",
			Family:             "AC",
			Requirement:        "Limit system access to authorized users",
			ClaimedStatus:      model.StatusImplemented,
			VerifiedStatus:     model.StatusImplemented,
			VerificationStatus: model.VerificationVerified,
			ComplianceScore:    100,
			LastVerified:       time.Now(),
		},
	}

	// Simulate the closure that the browser would create
	item := testControl
	ctrlCmd := func() tea.Msg { return model.ControlSelectedMsg{Control: &item} }

	// Execute the command to get the message
	msg := ctrlCmd()

	// Route the message through AppModel
	newApp, _ := app.Update(msg)
	updatedApp := newApp.(AppModel)

	// Verify the chat model received the message
	chatModel := updatedApp.agentModel.(chat.Model)
	if chatModel.CurrentControl() == nil {
		t.Fatal("control context was not set after message flow")
	}

	if chatModel.CurrentControl().ControlID != "3.1.1" {
		t.Errorf("Expected 3.1.1, got %s", chatModel.CurrentControl().ControlID)
	}

	// Verify the View shows the badge
	view := chatModel.View()
	if !strings.Contains(view, "3.1.1") {
		t.Error("Badge should appear in view after control context is set")
		t.Logf("View content:\n%s", view)
	}
}
