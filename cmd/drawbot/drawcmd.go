/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/solarchallenge-drawbot/internal"
	"github.com/mikeb26/solarchallenge-drawbot/knockout"
	"github.com/mikeb26/solarchallenge-drawbot/roster"
	"github.com/mikeb26/solarchallenge-drawbot/s3cache"
)

type DrawSubCommand string

const (
	DrawAboutCmd   DrawSubCommand = "about"
	DrawHelpCmd    DrawSubCommand = "help"
	DrawListCmd    DrawSubCommand = "list"
	DrawBracketCmd DrawSubCommand = "bracket"
	DrawOrderCmd   DrawSubCommand = "order"
	DrawPodiumCmd  DrawSubCommand = "podium"
	DrawOptionsCmd DrawSubCommand = "options"
	DrawResultCmd  DrawSubCommand = "result"
)

var drawSubCmdHdlrs = map[DrawSubCommand]CmdHandler{
	DrawAboutCmd:   drawAboutCmdHandler,
	DrawHelpCmd:    drawHelpCmdHandler,
	DrawListCmd:    drawListCmdHandler,
	DrawBracketCmd: drawBracketCmdHandler,
	DrawOrderCmd:   drawOrderCmdHandler,
	DrawPodiumCmd:  drawPodiumCmdHandler,
	DrawOptionsCmd: drawOptionsCmdHandler,
	DrawResultCmd:  drawResultCmdHandler,
}

func drawCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := drawHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := drawSubCmdHdlrs[DrawSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

// cmdOpts holds the option values shared by the draw subcommands.
type cmdOpts struct {
	event     string
	round     string
	race      int
	winner    string
	broadcast bool
}

func parseOpts(inter *discordgo.Interaction) cmdOpts {
	opts := cmdOpts{}

	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return opts
	}
	for _, opt := range data.Options[0].Options {
		switch opt.Name {
		case "event":
			opts.event = opt.StringValue()
		case "round":
			opts.round = opt.StringValue()
		case "race":
			opts.race = int(opt.IntValue())
		case "winner":
			opts.winner = opt.StringValue()
		case "broadcast":
			opts.broadcast = opt.BoolValue()
		}
	}
	return opts
}

func newEphemeralResp() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

// newDrawStore initializes the shared draw store.
func newDrawStore(ctx context.Context) (*s3cache.DrawStore, error) {
	store := s3cache.NewDrawStore(ctx, internal.DrawBucket)
	if err := store.Init(); err != nil {
		return nil, err
	}
	return store, nil
}

// loadStoredEvent fetches and reconstructs a draw from the shared store. An
// empty name selects the current event per DRAWBOT_EVENT.
func loadStoredEvent(ctx context.Context,
	name string) (*knockout.Event, *s3cache.DrawStore, error) {

	if name == "" {
		name = os.Getenv("DRAWBOT_EVENT")
	}
	if name == "" {
		return nil, nil, fmt.Errorf("no event specified and DRAWBOT_EVENT is not set")
	}

	store, err := newDrawStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	data, err := store.GetDraw(name)
	if err != nil {
		return nil, nil, err
	}
	event, err := knockout.RestoreJSON(data)
	if err != nil {
		return nil, nil, err
	}
	return event, store, nil
}

//go:embed about.txt
var aboutText string

func drawAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	resp.Data.Content = truncateContent(aboutText)

	return resp
}

//go:embed help.md
var helpText string

func drawHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	resp.Data.Content = truncateContent(helpText)

	return resp
}

func drawListCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	opts := parseOpts(inter)

	store, err := newDrawStore(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error reaching the draw store: %v",
			err)
		log.Printf("drawbot.list: %v", resp.Data.Content)
		return resp
	}
	names, err := store.ListDraws()
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error listing draws: %v", err)
		log.Printf("drawbot.list: %v", resp.Data.Content)
		return resp
	}
	if len(names) == 0 {
		resp.Data.Content = "No stored draws found."
		return resp
	}

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("- %v\n", name))
	}
	resp.Data.Content = truncateContent(sb.String())
	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

func drawBracketCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	opts := parseOpts(inter)

	event, _, err := loadStoredEvent(ctx, opts.event)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading draw: %v", err)
		log.Printf("drawbot.bracket: %v", resp.Data.Content)
		return resp
	}

	var output string
	if opts.round == "" {
		output = knockout.BuildBracketOutput(event)
	} else {
		id, err := knockout.ParseRoundID(opts.round)
		if err != nil {
			resp.Data.Content = fmt.Sprintf("Unknown round %q", opts.round)
			return resp
		}
		output, err = knockout.BuildRoundOutput(event, id)
		if err != nil {
			resp.Data.Content = fmt.Sprintf("Error rendering round: %v", err)
			log.Printf("drawbot.bracket: %v", resp.Data.Content)
			return resp
		}
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```", truncateContent(output))
	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

func drawOrderCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	opts := parseOpts(inter)

	event, _, err := loadStoredEvent(ctx, opts.event)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading draw: %v", err)
		log.Printf("drawbot.order: %v", resp.Data.Content)
		return resp
	}

	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(knockout.BuildPlayOrderOutput(event)))
	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

func drawPodiumCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	opts := parseOpts(inter)

	event, _, err := loadStoredEvent(ctx, opts.event)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading draw: %v", err)
		log.Printf("drawbot.podium: %v", resp.Data.Content)
		return resp
	}

	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(knockout.BuildPodiumOutput(event)))
	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// resolveRace parses the round and race options against a loaded draw.
func resolveRace(event *knockout.Event, round string,
	race int) (*knockout.Race, error) {

	id, err := knockout.ParseRoundID(round)
	if err != nil {
		return nil, err
	}
	races, err := event.Round(id)
	if err != nil {
		return nil, err
	}
	if race < 0 || race >= len(races) {
		return nil, fmt.Errorf("round %v has %d races", id, len(races))
	}
	return races[race], nil
}

func drawOptionsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	opts := parseOpts(inter)
	if opts.round == "" {
		resp.Data.Content = "Please provide a round."
		return resp
	}

	event, _, err := loadStoredEvent(ctx, opts.event)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading draw: %v", err)
		log.Printf("drawbot.options: %v", resp.Data.Content)
		return resp
	}
	race, err := resolveRace(event, opts.round, opts.race)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error resolving race: %v", err)
		log.Printf("drawbot.options: %v", resp.Data.Content)
		return resp
	}

	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(knockout.BuildOptionsOutput(race)))
	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

func drawResultCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	opts := parseOpts(inter)
	if opts.round == "" || opts.winner == "" {
		resp.Data.Content = "Please provide a round and a winner."
		return resp
	}

	event, store, err := loadStoredEvent(ctx, opts.event)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading draw: %v", err)
		log.Printf("drawbot.result: %v", resp.Data.Content)
		return resp
	}
	race, err := resolveRace(event, opts.round, opts.race)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error resolving race: %v", err)
		log.Printf("drawbot.result: %v", resp.Data.Content)
		return resp
	}

	carID := 0
	switch strings.ToLower(opts.winner) {
	case "dnr":
		carID = knockout.WinnerDNR
	case "none", "empty":
		carID = knockout.WinnerEmpty
	default:
		car, err := roster.FindCar(event.Cars, opts.winner)
		if err != nil {
			resp.Data.Content = fmt.Sprintf("Error resolving winner: %v", err)
			log.Printf("drawbot.result: %v", resp.Data.Content)
			return resp
		}
		carID = car.ID
	}

	if err := event.SetResult(race, carID); err != nil {
		resp.Data.Content = fmt.Sprintf("Error recording result: %v", err)
		log.Printf("drawbot.result: %v", resp.Data.Content)
		return resp
	}

	data, err := json.Marshal(event)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error serializing draw: %v", err)
		log.Printf("drawbot.result: %v", resp.Data.Content)
		return resp
	}
	if err := store.PutDraw(event.Name, data); err != nil {
		resp.Data.Content = fmt.Sprintf("Error storing draw: %v", err)
		log.Printf("drawbot.result: %v", resp.Data.Content)
		return resp
	}

	resp.Data.Content = fmt.Sprintf("Recorded result for %v", race.Name())
	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
