package review

import (
	"time"

	"phrasebot/internal/transport/telegram/router"
)

// Commands returns the command registry entries owned by this service.
func (s *Service) Commands() []router.Command {
	return []router.Command{
		{
			Route:       "study",
			Aliases:     []string{"s"},
			Description: "review the next due card",
			Usage:       "/study [deck_id]",
			Access:      router.AccessEveryone,
			Timeout:     15 * time.Second,
			Handle:      s.handleStudy,
		},
		{
			Route:       "add",
			Description: "add a card to a deck",
			Usage:       "/add <deck_id> <front> | <back>",
			Access:      router.AccessOwnerOnly,
			Timeout:     10 * time.Second,
			Handle:      s.handleAdd,
		},
		{
			Route:       "deck new",
			Description: "create a deck",
			Usage:       "/deck new <title> [--warmup N]",
			Access:      router.AccessOwnerOnly,
			Timeout:     10 * time.Second,
			Handle:      s.handleDeckNew,
		},
		{
			Route:       "deck delete",
			Description: "delete a deck and its cards",
			Usage:       "/deck delete <deck_id>",
			Access:      router.AccessOwnerOnly,
			Timeout:     10 * time.Second,
			Handle:      s.handleDeckDelete,
		},
		{
			Route:       "cards",
			Description: "browse the cards in a deck",
			Usage:       "/cards <deck_id> [page]",
			Access:      router.AccessEveryone,
			Timeout:     10 * time.Second,
			Handle:      s.handleCards,
		},
		{
			Route:       "decks",
			Description: "list decks with due counts",
			Usage:       "/decks",
			Access:      router.AccessEveryone,
			Timeout:     10 * time.Second,
			Handle:      s.handleDecks,
		},
		{
			Route:       "due",
			Description: "show how many cards are due",
			Usage:       "/due",
			Access:      router.AccessEveryone,
			Timeout:     10 * time.Second,
			Handle:      s.handleDue,
		},
		{
			Route:       "simulate",
			Description: "preview the review schedule",
			Usage:       "/simulate <count> or /simulate <rating...>",
			Access:      router.AccessEveryone,
			Timeout:     10 * time.Second,
			Handle:      s.handleSimulate,
		},
		{
			Route:       "hide",
			Description: "hide a card from reviews",
			Usage:       "/hide <card_id> [--off]",
			Access:      router.AccessOwnerOnly,
			Timeout:     10 * time.Second,
			Handle:      s.handleHide,
		},
		{
			Route:       "master",
			Description: "mark a card as mastered",
			Usage:       "/master <card_id> [--off]",
			Access:      router.AccessOwnerOnly,
			Timeout:     10 * time.Second,
			Handle:      s.handleMaster,
		},
	}
}

// Callbacks returns the inline-button routes owned by this service.
// Review UI callbacks are open to everyone; destructive confirmations
// keep the owner-only default.
func (s *Service) Callbacks() []router.CallbackRoute {
	return []router.CallbackRoute{
		{
			Scope:       callbackScope,
			Action:      "show",
			Description: "reveal the answer side",
			Access:      router.CallbackAccessEveryone,
			Timeout:     10 * time.Second,
			Handle:      s.cbShow,
		},
		{
			Scope:       callbackScope,
			Action:      "rate",
			Description: "apply a review rating",
			Access:      router.CallbackAccessEveryone,
			Timeout:     10 * time.Second,
			Handle:      s.cbRate,
		},
		{
			Scope:       callbackScope,
			Action:      "next",
			Description: "continue with the next due card",
			Access:      router.CallbackAccessEveryone,
			Timeout:     10 * time.Second,
			Handle:      s.cbNext,
		},
		{
			Scope:       callbackScope,
			Action:      "page",
			Description: "page through a deck's cards",
			Access:      router.CallbackAccessEveryone,
			Timeout:     10 * time.Second,
			Handle:      s.cbPage,
		},
		{
			Scope:       callbackScope,
			Action:      "deckdel",
			Description: "confirm a deck deletion",
			Timeout:     10 * time.Second,
			Handle:      s.cbDeckDelete,
		},
		{
			Scope:       callbackScope,
			Action:      "cancel",
			Description: "dismiss a confirmation prompt",
			Timeout:     10 * time.Second,
			Handle:      s.cbCancel,
		},
	}
}
