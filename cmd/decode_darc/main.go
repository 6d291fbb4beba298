// Command decode_darc reads a demodulated bitstream (one logical bit
// per input byte, its least-significant bit) from a file or stdin,
// feeds it through the pipeline, and prints a human-readable dump of
// every decoded record to stdout. Unless --port is 0 it also serves
// the accumulated parking snapshot as a Leaflet map over HTTP (default
// port 8080). When
// --store or --nats-url is given, decoded typed data-units are also
// written to the configured durable sink or published to NATS.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"darcdecoder/internal/aribtext"
	"darcdecoder/internal/bitio"
	"darcdecoder/internal/bus"
	"darcdecoder/internal/config"
	"darcdecoder/internal/dataunit/parking"
	"darcdecoder/internal/dump"
	"darcdecoder/internal/logging"
	"darcdecoder/internal/mapcoord"
	"darcdecoder/internal/mapserver"
	"darcdecoder/internal/pipeline"
	"darcdecoder/internal/store"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := logging.New(os.Stderr, level)

	in, closeIn, err := openInput(cfg.InputPath)
	if err != nil {
		logger.Error("open input", "error", err)
		return 1
	}
	defer closeIn()

	snapStore := mapserver.NewStore()
	if cfg.Port != 0 {
		srv := mapserver.NewServer(snapStore, cfg.Host, cfg.Port, cfg.CORSOrigins, logger)
		go func() {
			if err := srv.Run(); err != nil {
				logger.Error("map server exited", "error", err)
			}
		}()
	}

	sink, closeSink, err := openSink(cfg, logger)
	if err != nil {
		logger.Error("open store", "error", err)
		return 1
	}
	defer closeSink()

	publisher, err := openPublisher(cfg.NATSURL)
	if err != nil {
		logger.Error("connect nats", "error", err)
		return 1
	}
	if publisher != nil {
		defer publisher.Close()
	}

	text := aribtext.New()
	p := pipeline.New(text, logger)

	h := &handler{text: text, snapStore: snapStore, sink: sink, publisher: publisher, logger: logger}

	bits := bitio.Bits(bitio.ByteStream(in))
	bits(func(bit int) bool {
		for _, out := range p.PushBit(bit) {
			h.handle(out)
		}
		return true
	})

	return 0
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// recordSink is the common shape every --store backend exposes to the
// driver: durable persistence of decoded typed data-units and/or the
// parking snapshot. Only the operations a given backend supports are
// exercised; the others are no-ops.
type recordSink struct {
	clickhouse *store.ClickHouseSink
	postgres   *store.PostgresParkingStore
	sqlite     *store.SQLiteParkingStore
}

func openSink(cfg config.Config, logger *slog.Logger) (recordSink, func(), error) {
	ctx := context.Background()
	switch cfg.Store {
	case "":
		return recordSink{}, func() {}, nil
	case "clickhouse":
		ch, err := store.OpenClickHouseSink(ctx, store.ClickHouseConfig{
			Host: cfg.StoreHost, Port: cfg.StorePort, Database: cfg.StoreDatabase,
			User: cfg.StoreUser, Password: cfg.StorePassword,
		})
		if err != nil {
			return recordSink{}, nil, err
		}
		if err := ch.CreateSchema(ctx); err != nil {
			logger.Error("create clickhouse schema", "error", err)
		}
		return recordSink{clickhouse: ch}, func() { ch.Close() }, nil
	case "postgres":
		pg, err := store.OpenPostgresParkingStore(ctx, store.PostgresConfig{
			Host: cfg.StoreHost, Port: cfg.StorePort, Database: cfg.StoreDatabase,
			User: cfg.StoreUser, Password: cfg.StorePassword,
		})
		if err != nil {
			return recordSink{}, nil, err
		}
		if err := pg.CreateSchema(ctx); err != nil {
			logger.Error("create postgres schema", "error", err)
		}
		return recordSink{postgres: pg}, func() { pg.Close() }, nil
	case "sqlite":
		sl, err := store.OpenSQLiteParkingStore(cfg.StorePath)
		if err != nil {
			return recordSink{}, nil, err
		}
		if err := sl.CreateSchema(); err != nil {
			logger.Error("create sqlite schema", "error", err)
		}
		return recordSink{sqlite: sl}, func() { sl.Close() }, nil
	default:
		return recordSink{}, nil, fmt.Errorf("config: unknown --store backend %q", cfg.Store)
	}
}

func (s recordSink) insertEvent(rec store.Record) {
	if s.clickhouse == nil {
		return
	}
	_ = s.clickhouse.InsertBatch(context.Background(), []store.Record{rec})
}

func (s recordSink) upsertParking(p store.ParkingSnapshot) {
	switch {
	case s.postgres != nil:
		_ = s.postgres.Upsert(context.Background(), p)
	case s.sqlite != nil:
		_ = s.sqlite.Upsert(p)
	}
}

func openPublisher(natsURL string) (*bus.Publisher, error) {
	if natsURL == "" {
		return nil, nil
	}
	return bus.Connect(natsURL)
}

// handler renders each decoded Output and fans it out to every
// configured sink (stdout dump, the in-memory map-server snapshot, an
// optional durable store, an optional NATS publisher).
type handler struct {
	text      *aribtext.Decoder
	snapStore *mapserver.Store
	sink      recordSink
	publisher *bus.Publisher
	logger    *slog.Logger
}

func (h *handler) handle(out pipeline.Output) {
	if out.HeaderGroup != nil {
		fmt.Println(dump.Header(out.HeaderGroup.Header))
		for _, u := range out.Units {
			h.recordParking(u.Parking)
			h.recordEvent(out, u)
			h.publish(u)
			if u.Raw != nil {
				fmt.Println(dump.Unit(*u.Raw, h.text))
			}
		}
	}
	if out.Segment != nil {
		fmt.Println(dump.Segment(*out.Segment, h.text))
	}
}

// recordParking upserts every decoded parking record into the
// in-memory map-server snapshot and, if configured, the durable parking
// store, deriving display text and WGS-84 coordinates.
func (h *handler) recordParking(recs []parking.Record) {
	for _, rec := range recs {
		vacancy := rec.Header.VacancyStatus.Name()
		snap := mapserver.Snapshot{
			CenterX:       rec.Header.CenterX,
			CenterY:       rec.Header.CenterY,
			VacancyStatus: vacancy,
			VacancyColor:  mapserver.VacancyColor(rec.Header.VacancyStatus),
		}
		durable := store.ParkingSnapshot{
			CenterX:       rec.Header.CenterX,
			CenterY:       rec.Header.CenterY,
			VacancyStatus: vacancy,
			UpdatedAt:     time.Now(),
		}
		if rec.Ext1 != nil {
			snap.Name = rec.Ext1.Name
			durable.Name = rec.Ext1.Name
		}
		if rec.Ext2 != nil {
			snap.FeeText = mapserver.FeeText(*rec.Ext2)
			snap.HoursText = mapserver.HoursText(*rec.Ext2)
			durable.FeeText = snap.FeeText
		}

		pos := mapcoord.NewPosition(rec.Header.CenterX, rec.Header.CenterY, 0, 0)
		lat, lon := pos.WGS84LatLon()
		snap.Lat, snap.Lon = lat, lon

		h.snapStore.Upsert(snap)
		h.sink.upsertParking(durable)
	}
}

// recordEvent inserts one decoded typed data-unit into the configured
// ClickHouse event sink, when present.
func (h *handler) recordEvent(out pipeline.Output, u pipeline.DecodedUnit) {
	kind := eventKind(u)
	if kind == "" {
		return
	}
	payload, err := json.Marshal(u)
	if err != nil {
		h.logger.Error("marshal event payload", "error", err)
		return
	}
	h.sink.insertEvent(store.Record{
		Timestamp:   time.Now(),
		Kind:        kind,
		ServiceID:   out.ServiceID.String(),
		GroupNumber: out.DataGroupNumber,
		Payload:     string(payload),
	})
}

// publish sends one decoded typed data-unit to the configured NATS
// subject, when a publisher is configured.
func (h *handler) publish(u pipeline.DecodedUnit) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(u.Parameter, u); err != nil {
		h.logger.Warn("publish data-unit", "error", err)
	}
}

func eventKind(u pipeline.DecodedUnit) string {
	switch {
	case u.Congestion != nil:
		return "congestion"
	case u.Restriction != nil:
		return "restriction"
	case u.Parking != nil:
		return "parking"
	case u.SectionTT != nil:
		return "section_tt"
	default:
		return ""
	}
}
