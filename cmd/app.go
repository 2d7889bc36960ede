package cmd

import (
	"fmt"
	"strings"

	"github.com/reelbox/reelbox/constant"
	"github.com/reelbox/reelbox/decoder"
	"github.com/reelbox/reelbox/decoder/raw"
	"github.com/reelbox/reelbox/decoder/wav"
	"github.com/reelbox/reelbox/history"
	"github.com/reelbox/reelbox/internal/cache"
	"github.com/reelbox/reelbox/key"
	"github.com/reelbox/reelbox/log"
	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/sink"
	"github.com/reelbox/reelbox/storage"
	"github.com/reelbox/reelbox/where"
	"github.com/spf13/viper"
)

// app bundles the mounted volume and the controller driving it.
type app struct {
	volume     *storage.Volume
	library    *cache.Listing
	controller *player.Controller
	display    *sink.Display
	audio      *sink.Audio
	exts       []string
	untrack    func()
}

// volumeRoot is the configured storage root, or the media directory when unset.
func volumeRoot() string {
	root := viper.GetString(key.StorageRoot)
	if strings.TrimSpace(root) == "" {
		return where.Media()
	}
	return root
}

// newApp mounts the configured volume and initializes a controller for it.
func newApp() (*app, error) {
	volume := storage.NewVolume()
	if err := volume.Mount(volumeRoot()); err != nil {
		return nil, err
	}

	engine, err := newEngine(volume)
	if err != nil {
		volume.Unmount()
		return nil, err
	}

	a := &app{
		volume:  volume,
		library: cache.New(volume, cache.TTL),
		display: sink.NewDisplay(),
		exts:    engine.Extensions(),
		untrack: func() {},
	}

	opts := []player.Option{player.FromConfig(), player.WithDisplay(a.display)}
	if viper.GetBool(key.AudioEnable) {
		a.audio = sink.NewAudio()
		opts = append(opts, player.WithAudio(a.audio))
	}

	a.controller = player.New(engine, volume, opts...)

	if viper.GetBool(key.HistorySave) {
		a.untrack = history.Track(a.controller, func(err error) {
			log.Warnf("history: %s", err)
		})
	}

	if err := a.controller.Init(); err != nil {
		a.close()
		return nil, err
	}

	return a, nil
}

// newEngine builds the decoder selected by key.DecoderEngine over the volume.
func newEngine(volume *storage.Volume) (*decoder.Auto, error) {
	var (
		fs        = volume.Fs()
		wavEngine = wav.New(fs)
		rawEngine = raw.New(fs, viper.GetInt(key.DecoderRawFrameSize), viper.GetInt(key.DecoderRawFPS))
		auto      = decoder.NewAuto()
	)

	switch name := viper.GetString(key.DecoderEngine); name {
	case "auto", "":
		auto.Route(wavEngine, constant.ExtWAV)
		auto.Route(rawEngine, constant.ExtRaw, constant.ExtRGB, constant.ExtVid)
	case "wav":
		auto.Route(wavEngine, constant.ExtWAV)
	case "raw":
		auto.Route(rawEngine, constant.ExtRaw, constant.ExtRGB, constant.ExtVid)
	default:
		return nil, fmt.Errorf("unknown decoder engine %q, available options are: auto, wav, raw", name)
	}

	return auto, nil
}

func (a *app) close() {
	a.untrack()
	a.controller.Close()
	if a.audio != nil {
		_ = a.audio.Close()
	}
	a.volume.Unmount()
}
