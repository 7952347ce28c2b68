package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/boriwo/termart/internal/ascii"
	"github.com/boriwo/termart/internal/config"
	"github.com/boriwo/termart/internal/decode"
	"github.com/boriwo/termart/internal/player"
	"github.com/boriwo/termart/internal/term"
)

var v *viper.Viper

func init() {
	v = viper.New()

	// Defaults; all overridable via TERMART_* environment variables.
	v.SetDefault("width", 0) // 0 = probe the terminal
	v.SetDefault("font", "")
	v.SetDefault("charset", ascii.DefaultCharset)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("TERMART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewRootCommand builds the termart command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "termart <file>",
		Short: "Play a video as ASCII art in the terminal",
		Long: `termart decodes a video file and plays it back in the terminal as
ASCII art, paced to the source frame rate. Frames are decoded ahead of
playback by a background worker that is throttled once enough frames
are buffered.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}
	cmd.Flags().IntP("width", "w", 0, "output width in characters (default: terminal width)")
	cmd.Flags().String("font", "", "ttf font file to derive the character palette from")
	cmd.Flags().String("charset", ascii.DefaultCharset, "alphabet used with --font")
	cmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
	_ = v.BindPFlag("width", cmd.Flags().Lookup("width"))
	_ = v.BindPFlag("font", cmd.Flags().Lookup("font"))
	_ = v.BindPFlag("charset", cmd.Flags().Lookup("charset"))
	return cmd
}

func run(cmd *cobra.Command, fileName string) error {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else if lvl, err := logrus.ParseLevel(v.GetString("log.level")); err == nil {
		logrus.SetLevel(lvl)
	}

	width := v.GetInt("width")
	if cmd.Flags().Changed("width") && width <= 0 {
		return errors.Errorf("width must be a positive integer, got %d", width)
	}
	if width <= 0 {
		width = term.Width(config.DefaultWidth)
	}

	pal := ascii.DefaultPalette
	if font := v.GetString("font"); font != "" {
		var err error
		pal, err = ascii.FromFont(font, v.GetString("charset"))
		if err != nil {
			return err
		}
	}

	dec, err := decode.Open(fileName)
	if err != nil {
		return err
	}
	defer dec.Close()

	cfg, err := config.Derive(fileName, width, dec.Width(), dec.Height(), dec.FrameRate())
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"file":  fileName,
		"video": fmt.Sprintf("%dx%d@%.2ffps", cfg.VideoWidth, cfg.VideoHeight, cfg.FrameRate),
		"width": cfg.WidthChars,
	}).Info("starting playback")

	encode := func(pix []byte) string { return ascii.Frame(pix, cfg, pal) }
	return player.New(cfg, dec, encode, term.NewScreen(os.Stdout)).Play()
}

// Execute runs the CLI and maps failures to process exit codes: 1 for
// configuration or setup problems, 2 for a fatal decode failure during
// playback, 0 on clean stream exhaustion.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		logrus.Error(err)
		var decodeErr *decode.Error
		if errors.As(err, &decodeErr) {
			return 2
		}
		return 1
	}
	return 0
}
