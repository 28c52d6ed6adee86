package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/courierhub/labelqr/internal/adapters/config"
	"github.com/courierhub/labelqr/internal/domain/service"
	"github.com/courierhub/labelqr/internal/domain/utils/baseurl"
	"github.com/courierhub/labelqr/pkg/logger"
	qr "github.com/courierhub/labelqr/pkg/qrcode"
	"github.com/spf13/cobra"
)

type renderFlags struct {
	tracking string
	out      string
	format   string
	level    string
	mono     bool
	preset   string
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render [payload]",
		Short: "Render one code to a file without the database",
		Long: `Render one code to a file. The payload is either the argument or, with
--tracking, the label URL of a tracking code. When every image strategy
fails the payload is printed instead so it can go on the label as text.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, f)
		},
	}

	cmd.Flags().StringVarP(&f.tracking, "tracking", "t", "", "tracking code to build the label URL for")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (default qr.<ext>)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "image format: png, jpeg or bmp")
	cmd.Flags().StringVarP(&f.level, "level", "l", "", "error correction level: L, M, Q or H")
	cmd.Flags().BoolVar(&f.mono, "mono", false, "render the bi-level thermal variant")
	cmd.Flags().StringVar(&f.preset, "preset", "config", "option preset: config, default, label or thermal")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, f renderFlags) error {
	if err := config.Load(); err != nil {
		return err
	}
	log, err := logger.Named("render")
	if err != nil {
		return err
	}

	opts, err := presetOptions(f.preset)
	if err != nil {
		return err
	}
	if f.format != "" {
		if opts.Format, err = qr.ParseFormat(f.format); err != nil {
			return err
		}
	}
	if f.level != "" {
		if opts.Level, err = qr.ParseLevel(f.level); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("mono") {
		opts.Monochrome = f.mono
	}

	provider, err := config.Provider()
	if err != nil {
		return err
	}
	renderer := qr.NewRenderer(provider, log.SugaredLogger)

	var payload string
	switch {
	case f.tracking != "" && len(args) > 0:
		return errors.New("give either a payload or --tracking, not both")
	case f.tracking != "":
		qrService := service.NewQrService(renderer, nil, nil, nil, baseurl.Default(), 0, log.SugaredLogger)
		if payload, err = qrService.LabelPayload(f.tracking); err != nil {
			return err
		}
	case len(args) > 0:
		payload = args[0]
	default:
		return errors.New("nothing to render: pass a payload or --tracking")
	}

	res, err := renderer.Render([]byte(payload), opts)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		log.Warnf("%v", w)
	}
	if res.Image == nil {
		log.Errorf("every image strategy failed, printing the payload")
		_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Payload)
		return err
	}

	out := f.out
	if out == "" {
		out = "qr" + res.Format.Extension()
	}
	if err = os.WriteFile(out, res.Image, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	log.Infof("wrote %s (%dx%d, %s, strategy %s)", out, res.Width, res.Height, res.Level, res.Strategy)
	return nil
}

func presetOptions(name string) (qr.Options, error) {
	switch strings.ToLower(name) {
	case "", "config":
		return config.RenderOptions()
	case "default":
		return qr.DefaultOptions(), nil
	case "label":
		return qr.LabelOptions(), nil
	case "thermal":
		return qr.ThermalOptions(), nil
	default:
		return qr.Options{}, fmt.Errorf("unknown preset %q", name)
	}
}
