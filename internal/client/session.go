package client

import (
	"context"
	"time"

	"github.com/mdouchement/visionboard/internal/advice"
	"github.com/mdouchement/visionboard/internal/board"
	"github.com/mdouchement/visionboard/internal/config"
	"github.com/mdouchement/visionboard/internal/database"
	"github.com/mdouchement/visionboard/internal/lock"
	"github.com/mdouchement/visionboard/internal/remote"
	"github.com/mdouchement/visionboard/internal/remote/cloud"
	"github.com/mdouchement/visionboard/internal/remote/httpdoc"
	"github.com/mdouchement/visionboard/internal/remote/local"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SettingBoardID is the setting holding the id of the last opened board.
const SettingBoardID = "board_id"

// UnlockAttempts is the number of codes asked before giving up.
const UnlockAttempts = 3

type (
	// Options configures a Session.
	Options struct {
		Config config.Config
		Logger logrus.FieldLogger
		// BoardID forces the board to open, the cached one is used when empty.
		BoardID string
		// Ask reads the lock code, the lock is not checked when nil.
		Ask func() (string, error)
	}

	// A Session is an opened board.
	Session struct {
		Settings database.Client
		Remote   remote.Service
		Store    *board.Store
		logger   logrus.FieldLogger
	}
)

// Open opens the settings database, unlocks the board, connects the configured backend and loads the board.
func Open(ctx context.Context, o Options) (*Session, error) {
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}

	settings, err := database.StormOpen(o.Config.DatabasePath, o.Config.DatabaseCodec)
	if err != nil {
		return nil, errors.Wrap(err, "could not open local database")
	}

	if o.Ask != nil {
		if err = lock.New(settings).Prompt(o.Ask, UnlockAttempts); err != nil {
			settings.Close()
			return nil, errors.Wrap(err, "could not unlock")
		}
	}

	rs, err := Backend(ctx, o.Config, settings, o.Logger)
	if err != nil {
		settings.Close()
		return nil, err
	}

	s := &Session{
		Settings: settings,
		Remote:   rs,
		logger:   o.Logger,
	}

	migrations := []board.Migration{}
	if len(o.Config.Migration.LegacyNotes) > 0 {
		migrations = append(migrations, board.DropNotesWithContent(o.Config.Migration.LegacyNotes...))
	}

	s.Store = board.New(board.Options{
		Remote:     rs,
		Logger:     o.Logger,
		Debounce:   o.Config.Debounce,
		Migrations: migrations,
		Advisor: advice.NewGemini(o.Config.Gemini.APIKey, advice.GeminiOptions{
			Endpoint: o.Config.Gemini.Endpoint,
			Logger:   o.Logger,
		}),
	})

	id := o.BoardID
	if id == "" {
		id = s.cachedID()
	}

	if _, err = s.Store.Load(ctx, id); err != nil {
		s.Close(ctx)
		return nil, err
	}

	if s.Store.ID() != id {
		o.Logger.WithField("id", s.Store.ID()).Info("board id adopted")
	}
	if err = settings.SetSetting(SettingBoardID, s.Store.ID()); err != nil {
		o.Logger.WithError(err).Warn("could not cache board id")
	}

	return s, nil
}

// Backend returns the remote.Service selected by the configuration.
func Backend(ctx context.Context, cfg config.Config, settings database.Client, logger logrus.FieldLogger) (remote.Service, error) {
	switch cfg.Backend {
	case remote.BackendLocal, "":
		return local.New(settings), nil
	case remote.BackendCloud:
		mc := cloud.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			Secure:    cfg.Minio.Secure,
			PublicURL: cfg.Minio.PublicURL,
		}

		var objects cloud.ObjectStore
		if mc.Endpoint != "" {
			var err error
			if objects, err = cloud.NewMinio(mc); err != nil {
				return nil, err
			}
		}

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return cloud.Open(ctx, cfg.Redis.URL, objects, mc, logger)
	case remote.BackendHTTP:
		client, err := libvb.NewDefaultClient(cfg.Server.URL)
		if err != nil {
			return nil, errors.Wrap(err, "could not reach visionboard server")
		}
		return httpdoc.New(client, cfg.PollInterval, logger), nil
	default:
		return nil, errors.Errorf("unsupported backend: %s", cfg.Backend)
	}
}

// Logger returns the session logger.
func (s *Session) Logger() logrus.FieldLogger {
	return s.logger
}

func (s *Session) cachedID() string {
	var id string
	if err := s.Settings.GetSetting(SettingBoardID, &id); err != nil {
		if !s.Settings.IsNotFound(err) {
			s.logger.WithError(err).Warn("could not read cached board id")
		}
		return libvb.DefaultBoardID
	}
	if id == "" {
		return libvb.DefaultBoardID
	}
	return id
}

// Close flushes pending changes and releases the session resources.
func (s *Session) Close(ctx context.Context) error {
	err := s.Store.Close(ctx)

	if rerr := s.Remote.Close(); rerr != nil && err == nil {
		err = rerr
	}
	if _, ok := s.Remote.(*local.Local); !ok {
		// The local backend owns the settings database.
		if serr := s.Settings.Close(); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}
