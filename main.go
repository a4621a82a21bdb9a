package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/shipduel/components"
	"github.com/automoto/shipduel/config"
	"github.com/automoto/shipduel/game"
	"github.com/automoto/shipduel/network"
	"github.com/automoto/shipduel/network/debugdb"
	"github.com/automoto/shipduel/rollback"
	"github.com/automoto/shipduel/shared/netconfig"
	"github.com/automoto/shipduel/shared/protocol"
	"github.com/automoto/shipduel/systems"
	"golang.org/x/sync/errgroup"
)

const version = "shipduel/1"

var errMatchOver = errors.New("match over")

func main() {
	settings, err := config.LoadClientSettings()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	flag.StringVar(&settings.ServerAddress, "server", settings.ServerAddress, "Server address host:port")
	flag.IntVar(&settings.BotDifficulty, "difficulty", settings.BotDifficulty, "Bot difficulty (0 easy, 1 normal, 2 hard)")
	flag.Uint64Var(&settings.BotSeed, "seed", settings.BotSeed, "Bot random seed (0 = from client id)")
	flag.StringVar(&settings.DebugDBPath, "debug-db", settings.DebugDBPath, "SQLite file recording inputs and validations (empty = off)")
	flag.Parse()

	// Register network components for client-side deserialization
	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register network components: %v", err)
	}

	profile := loadProfile(settings.ServerAddress)
	if settings.BotSeed == 0 {
		settings.BotSeed = uint64(profile.ClientID)
	}

	var opts []game.ClientOption
	if settings.DebugDBPath != "" {
		db, err := debugdb.Open(settings.DebugDBPath)
		if err != nil {
			log.Fatalf("Failed to open debug db: %v", err)
		}
		defer db.Close()
		opts = append(opts, game.WithRecorder(db))
	}

	netClient := network.NewClient(profile.ClientID)
	manager := game.NewManager(rollback.WithHoldLimit(netconfig.Frame(settings.HoldLimit)))
	match := game.NewClientManager(profile.ClientID, netClient, manager, opts...)

	log.Printf("[client] connecting to %s as client %d", settings.ServerAddress, profile.ClientID)
	netClient.Connect(settings.ServerAddress, version, match)
	defer netClient.Disconnect()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return play(ctx, netClient, match, settings)
	})
	g.Go(func() error {
		return watch(ctx, netClient, settings.PingInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errMatchOver) {
		log.Fatalf("[client] %v", err)
	}
}

func loadProfile(server string) config.Profile {
	store, err := config.OpenProfileStore("shipduel")
	if err != nil {
		log.Printf("Warning: Could not open profile store: %v", err)
		return config.Profile{ClientID: fallbackClientID(), LastServer: server}
	}
	profile, err := store.Load()
	if err != nil {
		log.Printf("Warning: Could not load profile: %v", err)
		profile = config.Profile{ClientID: fallbackClientID()}
	}
	profile.LastServer = server
	if err := store.Save(profile); err != nil {
		log.Printf("Warning: Could not save profile: %v", err)
	}
	return profile
}

func fallbackClientID() netconfig.ClientID {
	return netconfig.ClientID(time.Now().UnixNano()%0xfffe + 1)
}

// play ticks the match once per frame with the bot standing in for the
// keyboard.
func play(ctx context.Context, netClient *network.Client, match *game.ClientManager, settings config.ClientSettings) error {
	ticker := time.NewTicker(netconfig.FixedPeriod)
	defer ticker.Stop()

	var bot *systems.Bot
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if netClient.State() == network.StateError {
				return netClient.LastError()
			}

			if bot == nil && match.Player() != netconfig.InvalidPlayer {
				bot = systems.NewBot(match.Player(), config.BotDifficulty(settings.BotDifficulty), settings.BotSeed)
			}
			local := netconfig.InputNone
			if bot != nil && match.MatchState().Has(netconfig.MatchStarted) {
				match.Rollback().View(func(w *components.World) {
					local = bot.Input(w)
				})
			}

			if err := match.Tick(now, local); err != nil {
				var derr *rollback.DesyncError
				if errors.As(err, &derr) {
					log.Printf("[client] match aborted: %v", derr)
					return errMatchOver
				}
				return err
			}
			if match.MatchState().Has(netconfig.MatchFinished) {
				if match.Winner() == match.Player() {
					log.Printf("[client] won at frame %d", match.Rollback().CurrentFrame())
				} else {
					log.Printf("[client] lost to player %d at frame %d", match.Winner(), match.Rollback().CurrentFrame())
				}
				return errMatchOver
			}
		}
	}
}

// watch pings the server and follows the spectator stream, logging the
// authoritative view of the match.
func watch(ctx context.Context, netClient *network.Client, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	spectator := network.NewSpectator()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if netClient.State() != network.StateJoinedGame {
				continue
			}
			if err := netClient.Ping(now); err != nil {
				log.Printf("[client] ping: %v", err)
			}
			if snap := netClient.LatestSnapshot(); snap != nil {
				spectator.Apply(*snap)
			}
			if m, ok := spectator.Match(); ok {
				log.Printf("[client] server validated frame %d, rtt %s, ships %+v",
					m.Frame, netClient.RTT().SRTT().Round(time.Millisecond), spectator.Ships())
			}
		}
	}
}
