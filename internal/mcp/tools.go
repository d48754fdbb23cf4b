// Package mcp exposes the card store as MCP tools over stdio, so an
// assistant can author cards, manage sets and themes, and test-draft
// boosters.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/cardsmith/internal/booster"
	"github.com/peterkuimelis/cardsmith/internal/store"
)

// activeStore is the singleton store (one per stdio process).
var activeStore *store.Store

// gen draws boosters for the generate_booster tool.
var gen = &booster.Generator{}

// dataFile is the snapshot path persisted after each mutation, set by
// main. Empty disables persistence.
var dataFile string

// SetStore sets the store the tools operate on.
func SetStore(s *store.Store) {
	activeStore = s
}

// SetDataFile sets the snapshot file persisted after each mutation.
func SetDataFile(path string) {
	dataFile = path
}

// RegisterTools adds all store tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(addCardTool(), handleAddCard)
	s.AddTool(updateCardTool(), handleUpdateCard)
	s.AddTool(deleteCardTool(), handleDeleteCard)
	s.AddTool(listCardsTool(), handleListCards)
	s.AddTool(addSetTool(), handleAddSet)
	s.AddTool(deleteSetTool(), handleDeleteSet)
	s.AddTool(listSetsTool(), handleListSets)
	s.AddTool(setMembershipTool(), handleSetMembership)
	s.AddTool(addThemeTool(), handleAddTheme)
	s.AddTool(deleteThemeTool(), handleDeleteTheme)
	s.AddTool(themeMembershipTool(), handleThemeMembership)
	s.AddTool(listThemesTool(), handleListThemes)
	s.AddTool(generateBoosterTool(), handleGenerateBooster)
	s.AddTool(exportSnapshotTool(), handleExportSnapshot)
	s.AddTool(importSnapshotTool(), handleImportSnapshot)
	s.AddTool(clearAllTool(), handleClearAll)
}

func respondJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return `{"error":"marshal failure"}`
	}
	return string(data)
}

// persist writes the snapshot file after a mutation. Persistence is a
// side responsibility; a failed write is reported but the in-memory
// mutation stands.
func persist() string {
	if dataFile == "" {
		return ""
	}
	if err := store.WriteSnapshotFile(dataFile, activeStore.Snapshot()); err != nil {
		return " (warning: could not persist snapshot: " + err.Error() + ")"
	}
	return ""
}

// --- Tool definitions ---

func addCardTool() mcp.Tool {
	return mcp.NewTool("add_card",
		mcp.WithDescription("Create a new custom card. The store assigns the id and timestamps. Returns the new card id."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Card name")),
		mcp.WithString("mana_cost", mcp.Description("Mana cost, e.g. '{2}{U}'")),
		mcp.WithString("super_type", mcp.Description("One of: none, token, legendary, 'legendary token' (default none)")),
		mcp.WithString("type", mcp.Description("Type line, e.g. 'Creature' or 'Basic Land'")),
		mcp.WithString("sub_type", mcp.Description("Subtype line, e.g. 'Drake'")),
		mcp.WithString("rarity", mcp.Description("One of: common, uncommon, rare, mythic (default common)")),
		mcp.WithString("rules_text", mcp.Description("Rules text")),
		mcp.WithString("flavor_text", mcp.Description("Flavor text")),
		mcp.WithString("artwork_url", mcp.Description("Artwork URL")),
		mcp.WithString("artist", mcp.Description("Artist credit")),
		mcp.WithString("power", mcp.Description("Power, creatures only")),
		mcp.WithString("toughness", mcp.Description("Toughness, creatures only")),
	)
}

func updateCardTool() mcp.Tool {
	return mcp.NewTool("update_card",
		mcp.WithDescription("Replace an existing card's fields. Unknown ids are silently ignored (the store's no-op contract)."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Card id")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Card name")),
		mcp.WithString("mana_cost", mcp.Description("Mana cost")),
		mcp.WithString("super_type", mcp.Description("Supertype")),
		mcp.WithString("type", mcp.Description("Type line")),
		mcp.WithString("sub_type", mcp.Description("Subtype line")),
		mcp.WithString("rarity", mcp.Description("Rarity")),
		mcp.WithString("rules_text", mcp.Description("Rules text")),
		mcp.WithString("flavor_text", mcp.Description("Flavor text")),
		mcp.WithString("artwork_url", mcp.Description("Artwork URL")),
		mcp.WithString("artist", mcp.Description("Artist credit")),
		mcp.WithString("power", mcp.Description("Power")),
		mcp.WithString("toughness", mcp.Description("Toughness")),
	)
}

func deleteCardTool() mcp.Tool {
	return mcp.NewTool("delete_card",
		mcp.WithDescription("Delete a card and remove it from every set and theme."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Card id")),
	)
}

func listCardsTool() mcp.Tool {
	return mcp.NewTool("list_cards",
		mcp.WithDescription("List all cards. Read-only."),
	)
}

func addSetTool() mcp.Tool {
	return mcp.NewTool("add_set",
		mcp.WithDescription("Create a new card set. Returns the new set id."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Set name")),
		mcp.WithString("abbreviation", mcp.Description("Short set code, e.g. 'ALP'")),
		mcp.WithString("note", mcp.Description("Free-form note")),
	)
}

func deleteSetTool() mcp.Tool {
	return mcp.NewTool("delete_set",
		mcp.WithDescription("Delete a set and all themes that belong to it. The 'none' set cannot be deleted."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Set id")),
	)
}

func listSetsTool() mcp.Tool {
	return mcp.NewTool("list_sets",
		mcp.WithDescription("List all sets with their card membership. Read-only."),
	)
}

func setMembershipTool() mcp.Tool {
	return mcp.NewTool("set_membership",
		mcp.WithDescription("Add a card to or remove a card from a set. Both directions are idempotent."),
		mcp.WithString("set_id", mcp.Required(), mcp.Description("Set id")),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Card id")),
		mcp.WithString("op", mcp.Required(), mcp.Description("'add' or 'remove'")),
	)
}

func addThemeTool() mcp.Tool {
	return mcp.NewTool("add_theme",
		mcp.WithDescription("Create a jumpstart theme inside an owning set. Returns the new theme id."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Theme name")),
		mcp.WithString("set_id", mcp.Required(), mcp.Description("Owning set id")),
		mcp.WithString("element", mcp.Description("Theme element, e.g. 'Fire'")),
		mcp.WithString("note", mcp.Description("Free-form note")),
	)
}

func deleteThemeTool() mcp.Tool {
	return mcp.NewTool("delete_theme",
		mcp.WithDescription("Delete a theme. Its cards stay in the owning set."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Theme id")),
	)
}

func themeMembershipTool() mcp.Tool {
	return mcp.NewTool("theme_membership",
		mcp.WithDescription("Add a card to or remove a card from a theme. Adding also puts the card in the theme's owning set; removing leaves the set untouched."),
		mcp.WithString("theme_id", mcp.Required(), mcp.Description("Theme id")),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Card id")),
		mcp.WithString("op", mcp.Required(), mcp.Description("'add' or 'remove'")),
	)
}

func listThemesTool() mcp.Tool {
	return mcp.NewTool("list_themes",
		mcp.WithDescription("List themes, optionally only those owned by one set. Read-only."),
		mcp.WithString("set_id", mcp.Description("Restrict to this owning set id")),
	)
}

func generateBoosterTool() mcp.Tool {
	return mcp.NewTool("generate_booster",
		mcp.WithDescription("Simulate play-booster draws from a set's card pool: 7 commons, 3 uncommons, 1 rare (12.5% mythic), 1 land, 2 wildcards. Slots with no eligible cards are skipped."),
		mcp.WithString("set_id", mcp.Required(), mcp.Description("Set id to draft from")),
		mcp.WithNumber("count", mcp.Description("Number of boosters to draw (default 1)")),
	)
}

func exportSnapshotTool() mcp.Tool {
	return mcp.NewTool("export_snapshot",
		mcp.WithDescription("Export the full store (cards, sets, themes) as a JSON snapshot. Read-only."),
	)
}

func importSnapshotTool() mcp.Tool {
	return mcp.NewTool("import_snapshot",
		mcp.WithDescription("Replace the whole store with a JSON snapshot ({cards, sets, themes}). The 'none' set is always regenerated, never imported."),
		mcp.WithString("json", mcp.Required(), mcp.Description("Snapshot JSON payload")),
	)
}

func clearAllTool() mcp.Tool {
	return mcp.NewTool("clear_all",
		mcp.WithDescription("Reset the store to its initial empty state (only the 'none' set remains)."),
	)
}

// --- Tool handlers ---

func cardInputFromRequest(request mcp.CallToolRequest) store.CardInput {
	superType := store.SuperType(request.GetString("super_type", string(store.SuperTypeNone)))
	rarity := store.Rarity(request.GetString("rarity", string(store.RarityCommon)))
	return store.CardInput{
		Name:       request.GetString("name", ""),
		ManaCost:   request.GetString("mana_cost", ""),
		SuperType:  superType,
		Type:       request.GetString("type", ""),
		SubType:    request.GetString("sub_type", ""),
		Rarity:     rarity,
		RulesText:  request.GetString("rules_text", ""),
		FlavorText: request.GetString("flavor_text", ""),
		ArtworkURL: request.GetString("artwork_url", ""),
		Artist:     request.GetString("artist", ""),
		Power:      request.GetString("power", ""),
		Toughness:  request.GetString("toughness", ""),
	}
}

func handleAddCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := cardInputFromRequest(request)
	if !in.Rarity.Valid() {
		return mcp.NewToolResultErrorf("unknown rarity %q", in.Rarity), nil
	}
	id := activeStore.AddCard(in)
	return mcp.NewToolResultText(`{"id":"` + id + `"}` + persist()), nil
}

func handleUpdateCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	in := cardInputFromRequest(request)
	if !in.Rarity.Valid() {
		return mcp.NewToolResultErrorf("unknown rarity %q", in.Rarity), nil
	}
	activeStore.UpdateCard(store.Card{
		ID:         id,
		Name:       in.Name,
		ManaCost:   in.ManaCost,
		SuperType:  in.SuperType,
		Type:       in.Type,
		SubType:    in.SubType,
		Rarity:     in.Rarity,
		RulesText:  in.RulesText,
		FlavorText: in.FlavorText,
		ArtworkURL: in.ArtworkURL,
		Artist:     in.Artist,
		Power:      in.Power,
		Toughness:  in.Toughness,
	})
	return mcp.NewToolResultText("ok" + persist()), nil
}

func handleDeleteCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	activeStore.DeleteCard(request.GetString("id", ""))
	return mcp.NewToolResultText("ok" + persist()), nil
}

func handleListCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(respondJSON(activeStore.Cards())), nil
}

func handleAddSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := activeStore.AddSet(store.SetInput{
		Name:         request.GetString("name", ""),
		Abbreviation: request.GetString("abbreviation", ""),
		Note:         request.GetString("note", ""),
	})
	return mcp.NewToolResultText(`{"id":"` + id + `"}` + persist()), nil
}

func handleDeleteSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	if id == store.NoneSetID {
		return mcp.NewToolResultError("the 'none' set cannot be deleted"), nil
	}
	activeStore.DeleteSet(id)
	return mcp.NewToolResultText("ok" + persist()), nil
}

func handleListSets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(respondJSON(activeStore.Sets())), nil
}

func handleSetMembership(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	setID := request.GetString("set_id", "")
	cardID := request.GetString("card_id", "")
	switch op := request.GetString("op", ""); op {
	case "add":
		activeStore.AddCardToSet(setID, cardID)
	case "remove":
		activeStore.RemoveCardFromSet(setID, cardID)
	default:
		return mcp.NewToolResultErrorf("op must be 'add' or 'remove', got %q", op), nil
	}
	return mcp.NewToolResultText("ok" + persist()), nil
}

func handleAddTheme(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	setID := request.GetString("set_id", "")
	if setID == "" {
		return mcp.NewToolResultError("set_id is required"), nil
	}
	id := activeStore.AddTheme(store.ThemeInput{
		Name:    request.GetString("name", ""),
		Element: request.GetString("element", ""),
		Note:    request.GetString("note", ""),
		SetID:   setID,
	})
	return mcp.NewToolResultText(`{"id":"` + id + `"}` + persist()), nil
}

func handleDeleteTheme(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	activeStore.DeleteTheme(request.GetString("id", ""))
	return mcp.NewToolResultText("ok" + persist()), nil
}

func handleThemeMembership(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	themeID := request.GetString("theme_id", "")
	cardID := request.GetString("card_id", "")
	switch op := request.GetString("op", ""); op {
	case "add":
		activeStore.AddCardToTheme(themeID, cardID)
	case "remove":
		activeStore.RemoveCardFromTheme(themeID, cardID)
	default:
		return mcp.NewToolResultErrorf("op must be 'add' or 'remove', got %q", op), nil
	}
	return mcp.NewToolResultText("ok" + persist()), nil
}

func handleListThemes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if setID := request.GetString("set_id", ""); setID != "" {
		return mcp.NewToolResultText(respondJSON(activeStore.ThemesBySetID(setID))), nil
	}
	return mcp.NewToolResultText(respondJSON(activeStore.Themes())), nil
}

func handleGenerateBooster(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	setID := request.GetString("set_id", "")
	if _, ok := activeStore.SetByID(setID); !ok {
		return mcp.NewToolResultErrorf("no set with id %q", setID), nil
	}
	count := request.GetInt("count", 1)
	if count < 1 {
		count = 1
	}
	pool := activeStore.SetPool(setID)
	boosters := make([][]booster.DraftedCard, 0, count)
	for i := 0; i < count; i++ {
		boosters = append(boosters, gen.Generate(pool))
	}
	return mcp.NewToolResultText(respondJSON(boosters)), nil
}

func handleExportSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(respondJSON(activeStore.Snapshot())), nil
}

func handleImportSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := store.ParseSnapshot([]byte(request.GetString("json", "")))
	if err != nil {
		// Parse failure leaves the store untouched.
		return mcp.NewToolResultErrorf("import rejected: %v", err), nil
	}
	activeStore.Import(snap)
	return mcp.NewToolResultText("ok" + persist()), nil
}

func handleClearAll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	activeStore.Clear()
	return mcp.NewToolResultText("ok" + persist()), nil
}
