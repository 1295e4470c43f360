package video

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/ivlev/geoslides/internal/config"
)

type VideoEncoder interface {
	EncodeSlides(ctx context.Context, pattern string, videoPath string, params config.VideoParams) error
}

type FFmpegEncoder struct{}

// EncodeSlides собирает пронумерованные слайды (шаблон вида slide%03d.png,
// нумерация с нуля) в видео, каждый слайд держится SlideDuration секунд.
func (e *FFmpegEncoder) EncodeSlides(ctx context.Context, pattern string, videoPath string, params config.VideoParams) error {
	args := e.buildFFmpegArgs(pattern, videoPath, params)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg error: %w, output: %s", err, string(out))
	}
	return nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(pattern string, videoPath string, params config.VideoParams) []string {
	args := []string{
		"-y",
		"-framerate", "1/" + strconv.FormatFloat(params.SlideDuration, 'f', -1, 64),
		"-start_number", "0",
		"-i", pattern,
		// yuv420p требует четных размеров кадра
		"-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2",
		"-r", fmt.Sprintf("%d", params.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", params.Encoder,
	}

	// Качество в зависимости от энкодера
	switch params.Encoder {
	case "h264_videotoolbox":
		bitrate := params.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", params.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", params.Quality), "-preset", "medium")
	}

	args = append(args, videoPath)
	return args
}
