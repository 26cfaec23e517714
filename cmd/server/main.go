package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"stronghold.rts/internal/persistence/indexdb"
	persistlog "stronghold.rts/internal/persistence/log"
	"stronghold.rts/internal/persistence/mirror"
	"stronghold.rts/internal/protocol"
	"stronghold.rts/internal/persistence/snapshot"
	"stronghold.rts/internal/sim/rts"
	"stronghold.rts/internal/sim/tuning"
	"stronghold.rts/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml")
		tickMs     = flag.Int64("tick_ms", 1000, "wall-clock milliseconds per logical tick")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite read-model index")

		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "load latest snapshot from data dir if present (when -snapshot is empty)")

		mirrorEndpoint = flag.String("mirror_endpoint", "", "S3-compatible endpoint for off-host journal/snapshot mirroring (optional)")
		mirrorBucket   = flag.String("mirror_bucket", "", "bucket for the mirror")
		mirrorPrefix   = flag.String("mirror_prefix", "stronghold", "object key prefix for the mirror")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	_ = os.MkdirAll(*dataDir, 0o755)

	// Create engine (fresh from tuning, or resumed from snapshot).
	snapshotToLoad := strings.TrimSpace(*snapPath)
	if snapshotToLoad == "" && *loadLatest {
		snapshotToLoad = latestSnapshot(*dataDir)
	}

	var engine *rts.Engine
	var baseTick uint64
	if snapshotToLoad != "" {
		snap, err := snapshot.ReadSnapshot(snapshotToLoad)
		if err != nil {
			logger.Fatalf("read snapshot: %v", err)
		}
		engine = rts.NewFromSnapshot(snap)
		baseTick = snap.Header.Tick
		logger.Printf("resumed from %s (tick=%d seq=%d players=%d)",
			snapshotToLoad, snap.Header.Tick, snap.Header.Seq, len(snap.Players))
	} else {
		tune, err := tuning.Load(*tuningPath)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Printf("tuning not found (%s); using defaults", *tuningPath)
				tune = tuning.Defaults()
			} else {
				logger.Fatalf("load tuning: %v", err)
			}
		}
		engine = rts.New(tune.ToConfig())
	}

	// Journals are the durable replay record; the index is a read model.
	actions := persistlog.NewActionJournal(*dataDir)
	defer actions.Close()
	events := persistlog.NewEventJournal(*dataDir)
	defer events.Close()

	actionLoggers := actionFan{actions}
	eventLoggers := eventFan{events}
	if !*disableDB {
		idx, err := indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		actionLoggers = append(actionLoggers, idx)
		eventLoggers = append(eventLoggers, idx, campaignIndexer{idx})
	}
	engine.SetActionLogger(actionLoggers)
	engine.SetEventLogger(eventLoggers)

	// Off-host archive of journals and snapshots. Credentials come from the
	// environment so they never land in process listings.
	var archive *mirror.Mirror
	if *mirrorEndpoint != "" {
		client, err := mirror.NewS3Client(
			*mirrorEndpoint,
			*mirrorBucket,
			os.Getenv("MIRROR_ACCESS_KEY_ID"),
			os.Getenv("MIRROR_SECRET_ACCESS_KEY"),
		)
		if err != nil {
			logger.Fatalf("mirror: %v", err)
		}
		archive = mirror.New(client, *dataDir, *mirrorPrefix, 2, logger)
	}

	clock := newWallClock(baseTick, *tickMs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx, clock)

	server := ws.NewServer(engine, clock, logger)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/debug/pprof/", pprof.Index)

	httpServer := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		logger.Printf("listening on %s (tick=%dms)", *addr, *tickMs)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Printf("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	cancel()

	// Snapshot on exit so the next boot resumes instead of starting fresh.
	snap := engine.ExportSnapshot()
	path := filepath.Join(*dataDir, "snapshots", fmt.Sprintf("snap-%012d.snap.zst", snap.Header.Tick))
	if err := snapshot.WriteSnapshot(path, snap); err != nil {
		logger.Printf("write snapshot: %v", err)
	} else {
		logger.Printf("snapshot written: %s", path)
	}

	// Journals must be flushed before the mirror sweeps them.
	_ = actions.Close()
	_ = events.Close()
	if archive != nil {
		archive.Enqueue(path)
		archive.EnqueueDir(filepath.Join(*dataDir, "actions"))
		archive.EnqueueDir(filepath.Join(*dataDir, "events"))
		archive.Close()
	}
}

// wallClock maps wall time onto logical ticks, continuing from the
// resumed snapshot's tick.
type wallClock struct {
	base    uint64
	start   time.Time
	perTick time.Duration
}

func newWallClock(baseTick uint64, tickMs int64) *wallClock {
	if tickMs <= 0 {
		tickMs = 1000
	}
	return &wallClock{
		base:    baseTick,
		start:   time.Now(),
		perTick: time.Duration(tickMs) * time.Millisecond,
	}
}

func (c *wallClock) Now() uint64 {
	return c.base + uint64(time.Since(c.start)/c.perTick)
}

type actionFan []rts.ActionLogger

func (f actionFan) WriteAction(e rts.ActionLogEntry) error {
	var err error
	for _, l := range f {
		if werr := l.WriteAction(e); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

type eventFan []rts.EventLogger

func (f eventFan) WriteEvent(e rts.EventLogEntry) error {
	var err error
	for _, l := range f {
		if werr := l.WriteEvent(e); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

// campaignIndexer mirrors campaign-created events into the campaigns
// table so operators can list campaigns without scanning journals.
type campaignIndexer struct {
	idx *indexdb.SQLiteIndex
}

func (c campaignIndexer) WriteEvent(e rts.EventLogEntry) error {
	if e.Event.Action != protocol.EvCampaignCreated {
		return nil
	}
	view, ok := e.Event.Value.(rts.CampaignView)
	if !ok {
		return nil
	}
	c.idx.RecordCampaign(view.ID, view.Start, view.Duration, view.Stock)
	return nil
}

func latestSnapshot(dataDir string) string {
	dir := filepath.Join(dataDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "snap-") && strings.HasSuffix(name, ".snap.zst") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1])
}
