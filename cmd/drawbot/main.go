/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

var (
	botPubKey ed25519.PublicKey
	botAppId  string
	drawCmdId string
	client    *discordgo.Session
)

type TopLevelCommand string

const (
	DrawCmd TopLevelCommand = "draw"
)

type CmdHandler func(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	DrawCmd: drawCmdHandler,
}

func interactionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !discordgo.VerifyInteraction(r, botPubKey) {
		log.Printf("drawbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("drawbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("drawbot.int: failed to unmarshal interaction: err:%v body:%v",
			err, body)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		hdlr, ok :=
			topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'",
					inter.ApplicationCommandData().Name),
				Flags: discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(ctx, &inter)
		}
	} else {
		log.Printf("drawbot.int: unimplemented interaction type %v: inter:%v",
			inter.Type, inter)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("drawbot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_, err = w.Write(rawResp)
	if err != nil {
		log.Printf("drawbot.int: failed to write resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

// setup loads the bot's configuration from the environment, optionally
// seeded from a .env file.
func setup() error {
	// Not fatal; in deployment the environment is set directly.
	_ = godotenv.Load()

	pubKeyText := os.Getenv("DRAWBOT_PUBKEY")
	if pubKeyText == "" {
		return fmt.Errorf("DRAWBOT_PUBKEY is not set")
	}
	pubKeyBytes, err := hex.DecodeString(pubKeyText)
	if err != nil {
		return fmt.Errorf("failed to parse public key: %w", err)
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)

	botAppId = os.Getenv("DRAWBOT_APPID")
	drawCmdId = os.Getenv("DRAWBOT_CMDID")

	client, err = discordgo.New("Bot " + os.Getenv("DRAWBOT_TOKEN"))
	if err != nil {
		return fmt.Errorf("failed to initialize discord client: %w", err)
	}
	return nil
}

func registerSlashCommands() {
	eventOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "event",
		Description: "Stored event name (default is the current event)",
		Required:    false,
	}
	roundOpt := func(required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "round",
			Description: "Round name, e.g. P1, SC3, GF, or CR",
			Required:    required,
		}
	}
	raceOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "race",
		Description: "Race index within the round (default is 0)",
		Required:    false,
	}
	broadcastOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}

	drawCmd := &discordgo.ApplicationCommand{
		Name:        string(DrawCmd),
		Description: "Knockout draw commands; try /draw help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DrawHelpCmd),
				Description: "Show usage for draw",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DrawAboutCmd),
				Description: "Show information about solarchallenge-drawbot",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DrawListCmd),
				Description: "List stored knockout draws",
				Options: []*discordgo.ApplicationCommandOption{
					broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DrawBracketCmd),
				Description: "Show a round of the draw, or the full bracket",
				Options: []*discordgo.ApplicationCommandOption{
					roundOpt(false), eventOpt, broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DrawOrderCmd),
				Description: "Show the round play order with race numbers",
				Options: []*discordgo.ApplicationCommandOption{
					eventOpt, broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DrawPodiumCmd),
				Description: "Show the podium places",
				Options: []*discordgo.ApplicationCommandOption{
					eventOpt, broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DrawOptionsCmd),
				Description: "Show the selectable winners for a race",
				Options: []*discordgo.ApplicationCommandOption{
					roundOpt(true), raceOpt, eventOpt, broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DrawResultCmd),
				Description: "Record a race result",
				Options: []*discordgo.ApplicationCommandOption{
					roundOpt(true), raceOpt,
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "winner",
						Description: "Winning car id or name, or 'dnr', or 'none' to retract",
						Required:    true,
					},
					eventOpt, broadcastOpt,
				},
			},
		},
	}

	if drawCmdId == "" {
		cmd, err := client.ApplicationCommandCreate(botAppId, "", drawCmd)
		if err != nil {
			log.Printf("drawbot.reg: failed to register %v: %v", drawCmd.Name,
				err)
			return
		}

		log.Printf("drawbot.reg: registered %v(cmdID:%v); please set DRAWBOT_CMDID",
			cmd.Name, cmd.ID)
	} else {
		cmd, err := client.ApplicationCommandEdit(botAppId, "", drawCmdId,
			drawCmd)
		if err != nil {
			log.Printf("drawbot.reg: failed to update %v: %v", drawCmd.Name,
				err)
			return
		}

		log.Printf("drawbot.reg: updated %v(cmdID:%v)", cmd.Name, cmd.ID)
	}
}

func main() {
	if err := setup(); err != nil {
		log.Fatalf("drawbot.main: %v", err)
	}
	go registerSlashCommands()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("drawbot.main: starting server on %v:8080", hostname)

	http.HandleFunc("/DrawBot/Interaction", interactionHandler)
	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatalf("drawbot.main: Serve failed: %v", err)
	}

	log.Printf("drawbot.main: exiting")
}
