package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game operations",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameConfirmCmd())
	cmd.AddCommand(newGameRerollCmd())
	cmd.AddCommand(newGameFireCmd())
	cmd.AddCommand(newGamePauseCmd())
	cmd.AddCommand(newGameResumeCmd())
	cmd.AddCommand(newGameForfeitCmd())
	cmd.AddCommand(newGameChatCmd())
	cmd.AddCommand(newGameMatchCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var width, height, margin, graceSecs int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			if width > 0 {
				body["board_width"] = width
			}
			if height > 0 {
				body["board_height"] = height
			}
			if cmd.Flags().Changed("margin") {
				body["ship_margin"] = margin
			}
			if graceSecs > 0 {
				body["grace_period_seconds"] = graceSecs
			}

			var result Game
			if err := client.Post("/api/v1/games", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Board width (default 10)")
	cmd.Flags().IntVar(&height, "height", 0, "Board height (default 10)")
	cmd.Flags().IntVar(&margin, "margin", 0, "Minimum spacing between ships")
	cmd.Flags().IntVar(&graceSecs, "grace", 0, "Reconnect grace period in seconds")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "get <code>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games/" + url.PathEscape(args[0])
			if playerID != "" {
				path += "?player_id=" + url.QueryEscape(playerID)
			}

			var result Game
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Reveal this player's ship positions")

	return cmd
}

func newGameJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result JoinResult
			body := map[string]string{"display_name": name}
			if err := client.Post("/api/v1/games/"+url.PathEscape(args[0])+"/join", body, &result); err != nil {
				return err
			}

			// Keep the resume token around for `game resume`
			if err := cfg.SaveToken(result.ResumeToken); err != nil {
				return fmt.Errorf("failed to save resume token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGameConfirmCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "confirm <code>",
		Short: "Confirm your board layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			body := map[string]string{"player_id": playerID}
			if err := client.Post("/api/v1/games/"+url.PathEscape(args[0])+"/board/confirm", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Your player ID")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newGameRerollCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "reroll <code>",
		Short: "Reroll your board layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			body := map[string]string{"player_id": playerID}
			if err := client.Post("/api/v1/games/"+url.PathEscape(args[0])+"/board/reroll", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Your player ID")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newGameFireCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "fire <code> <x> <y>",
		Short: "Fire a shot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid x coordinate: %s", args[1])
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid y coordinate: %s", args[2])
			}

			var result FireResult
			body := map[string]any{"player_id": playerID, "x": x, "y": y}
			if err := client.Post("/api/v1/games/"+url.PathEscape(args[0])+"/fire", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Your player ID")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newGamePauseCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "pause <code>",
		Short: "Pause a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			body := map[string]string{"reason": reason}
			if err := client.Post("/api/v1/games/"+url.PathEscape(args[0])+"/pause", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "requested", "Pause reason")

	return cmd
}

func newGameResumeCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Confirm your half of the resume handshake",
		Long: `Confirm resuming a paused game using your resume token.

Both players must resume before play continues. The token defaults to
the one saved by the last join on this machine.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = cfg.Token
			}
			if token == "" {
				return fmt.Errorf("no resume token: pass --resume-token or join a game first")
			}

			var result Game
			body := map[string]string{"token": token}
			if err := client.Post("/api/v1/resume", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "resume-token", "", "Resume token (defaults to saved token)")

	return cmd
}

func newGameForfeitCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "forfeit <code>",
		Short: "Forfeit a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			body := map[string]string{"player_id": playerID}
			if err := client.Post("/api/v1/games/"+url.PathEscape(args[0])+"/forfeit", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Your player ID")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newGameChatCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "chat <code> <message>",
		Short: "Send a chat message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"player_id": playerID, "message": args[1]}
			if err := client.Post("/api/v1/games/"+url.PathEscape(args[0])+"/chat", body, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Message sent")
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Your player ID")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newGameMatchCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Join the quick-match queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result JoinResult
			body := map[string]string{"display_name": name}
			if err := client.Post("/api/v1/matchmaking", body, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.ResumeToken); err != nil {
				return fmt.Errorf("failed to save resume token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
