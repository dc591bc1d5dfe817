package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/riskibarqy/matchday-sync/internal/app"
	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

var cliTracer = otel.Tracer("matchday-sync/internal/interfaces/cli")

// Opener builds the wired application for one command run.
type Opener func(ctx context.Context) (*app.App, error)

// NewRootCommand is the syncctl operator CLI. Every subcommand runs one
// sync operation in-process and prints its report as JSON.
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "syncctl",
		Short:         "Run matchday-sync operations by hand",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		runCommand(open, "master", "Mirror fixtures of the target leagues for yesterday, today and tomorrow", func(ctx context.Context, a *app.App) (any, error) {
			return a.MasterSync.Run(ctx)
		}),
		runCommand(open, "predict", "Store the API usage forecast for the current UTC day", func(ctx context.Context, a *app.App) (any, error) {
			return a.UsagePredictor.Predict(ctx)
		}),
		runCommand(open, "live", "Run one live manager tick", func(ctx context.Context, a *app.App) (any, error) {
			return a.LiveManager.Run(ctx)
		}),
		runCommand(open, "lineups", "Run one lineup manager scan", func(ctx context.Context, a *app.App) (any, error) {
			return a.LineupManager.Run(ctx)
		}),
		runCommand(open, "usage", "Show today's API usage and forecast", func(ctx context.Context, a *app.App) (any, error) {
			return a.Ledger.Snapshot(ctx)
		}),
		teamCommand(open),
		squadCommand(open),
		playerCommand(open),
		leagueCommand(open),
		mapTeamsCommand(open),
		standingsCommand(open),
	)
	return root
}

type runFunc func(ctx context.Context, a *app.App) (any, error)

func runCommand(open Opener, use, short string, run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, open, use, run)
		},
	}
}

func teamCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "team <team-id>",
		Short: "Sync one team's full profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := parseID("team-id", args[0])
			if err != nil {
				return err
			}
			return execute(cmd, open, "team", func(ctx context.Context, a *app.App) (any, error) {
				return a.Catalog.SyncTeam(ctx, teamID)
			})
		},
	}
}

func squadCommand(open Opener) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "squad [team-id...]",
		Short: "Sync squads of the given teams, or of every stored team with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("pass team ids or --all, not both")
			}
			if !all && len(args) == 0 {
				return fmt.Errorf("at least one team id is required")
			}
			teamIDs, err := parseIDs("team-id", args)
			if err != nil {
				return err
			}
			return execute(cmd, open, "squad", func(ctx context.Context, a *app.App) (any, error) {
				if len(teamIDs) == 1 {
					return a.Catalog.SyncSquad(ctx, teamIDs[0])
				}
				return a.Catalog.SyncAllSquads(ctx, teamIDs)
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "sync every stored team")
	return cmd
}

func playerCommand(open Opener) *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "player <player-id>",
		Short: "Sync one player's profile and season statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := parseID("player-id", args[0])
			if err != nil {
				return err
			}
			return execute(cmd, open, "player", func(ctx context.Context, a *app.App) (any, error) {
				return a.Catalog.SyncPlayer(ctx, playerID, season)
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", usecase.DefaultPlayerSeason, "statistics season")
	return cmd
}

func leagueCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "league <league-id>",
		Short: "Sync one league's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leagueID, err := parseID("league-id", args[0])
			if err != nil {
				return err
			}
			return execute(cmd, open, "league", func(ctx context.Context, a *app.App) (any, error) {
				return a.Catalog.SyncLeague(ctx, leagueID)
			})
		},
	}
}

func mapTeamsCommand(open Opener) *cobra.Command {
	var (
		afLeagueID int64
		fdCode     string
	)
	cmd := &cobra.Command{
		Use:   "map-teams",
		Short: "Match football-data.org teams to stored API-Football teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, open, "map-teams", func(ctx context.Context, a *app.App) (any, error) {
				return a.TeamMapping.AutoMap(ctx, afLeagueID, fdCode)
			})
		},
	}
	cmd.Flags().Int64Var(&afLeagueID, "af-league", 0, "API-Football league id")
	cmd.Flags().StringVar(&fdCode, "fd-code", "", "football-data.org competition code, e.g. PL")
	_ = cmd.MarkFlagRequired("af-league")
	_ = cmd.MarkFlagRequired("fd-code")
	return cmd
}

func standingsCommand(open Opener) *cobra.Command {
	var (
		afLeagueID int64
		fdCode     string
		season     int
	)
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Store a league table under API-Football team ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, open, "standings", func(ctx context.Context, a *app.App) (any, error) {
				return a.Standings.Sync(ctx, afLeagueID, fdCode, season)
			})
		},
	}
	cmd.Flags().Int64Var(&afLeagueID, "af-league", 0, "API-Football league id")
	cmd.Flags().StringVar(&fdCode, "fd-code", "", "football-data.org competition code, e.g. PL")
	cmd.Flags().IntVar(&season, "season", 0, "season start year")
	_ = cmd.MarkFlagRequired("af-league")
	_ = cmd.MarkFlagRequired("fd-code")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

func execute(cmd *cobra.Command, open Opener, name string, run runFunc) error {
	ctx, span := cliTracer.Start(cmd.Context(), "syncctl."+name)
	defer span.End()

	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := run(ctx, a)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", name, err)
	}

	body, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s report: %w", name, err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
	return err
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

func parseIDs(name string, raw []string) ([]int64, error) {
	out := make([]int64, 0, len(raw))
	for _, item := range raw {
		id, err := parseID(name, item)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
