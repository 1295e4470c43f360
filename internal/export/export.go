package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/geoslides/internal/config"
	"github.com/ivlev/geoslides/internal/navigator"
	"github.com/ivlev/geoslides/internal/render"
	"github.com/ivlev/geoslides/internal/scene"
	"github.com/ivlev/geoslides/internal/script"
	"github.com/ivlev/geoslides/internal/system"
	"github.com/ivlev/geoslides/internal/video"
)

// Exporter сохраняет каждый подшаг сценария в отдельный кадр и, если
// задано, собирает кадры в видео.
type Exporter struct {
	Config  *config.Config
	Deck    *script.Deck
	Encoder video.VideoEncoder
	// Если EncoderName пустой, энкодер выбирается автоматически.
	EncoderName string
}

// Report: результат экспорта.
type Report struct {
	Frames []string
	Video  string
	Render time.Duration
	Encode time.Duration
	Total  time.Duration
}

func New(cfg *config.Config, deck *script.Deck) *Exporter {
	return &Exporter{
		Config:  cfg,
		Deck:    deck,
		Encoder: &video.FFmpegEncoder{},
	}
}

// FramePattern превращает out/slide.png в out/slide%03d.png.
func FramePattern(slides string) string {
	ext := filepath.Ext(slides)
	base := strings.TrimSuffix(slides, ext)
	if ext == "" {
		ext = ".png"
	}
	return base + "%03d" + ext
}

// FramePath возвращает имя кадра i (нумерация с нуля).
func FramePath(pattern string, i int) string {
	return fmt.Sprintf(pattern, i)
}

func (p *Exporter) Run(ctx context.Context) (*Report, error) {
	startTime := time.Now()

	count := p.Deck.Len()
	if count == 0 {
		return nil, errors.New("сценарий не содержит шагов")
	}
	if p.Config.Slides == "" {
		return nil, errors.New("не задан шаблон слайдов")
	}

	pattern := FramePattern(p.Config.Slides)
	if err := os.MkdirAll(filepath.Dir(pattern), 0755); err != nil {
		return nil, err
	}

	raster := render.NewRaster(p.Config.Width, p.Config.Height, render.Options{
		LineWidth:   p.Config.LineWidth,
		PointRadius: p.Config.PointRadius,
	})
	nav := navigator.New(p.Deck, scene.New(raster), p.Config.Viewport())

	fmt.Println("--- [GEOSLIDES: EXPORT] ---")
	fmt.Printf("[*] Источник: %s | Слайдов: %d\n", p.Config.InputPath, count)
	fmt.Printf("[*] Разрешение: %dx%d | Потоков: %d\n", p.Config.Width, p.Config.Height, p.Config.Workers)
	fmt.Println("-----------------------------")

	report := &Report{Frames: make([]string, count)}

	// Навигация идет последовательно (сцена не потокобезопасна),
	// кодирование PNG идет параллельно, с ограничением по Workers.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Config.Workers)

	var navErr error
	for i := 0; i < count; i++ {
		if gctx.Err() != nil {
			break
		}
		if _, err := nav.Next(); err != nil {
			navErr = fmt.Errorf("слайд %d: %w", i, err)
			break
		}

		src := raster.Image()
		frame := system.GetImage(src.Rect)
		copy(frame.Pix, src.Pix)

		path := FramePath(pattern, i)
		report.Frames[i] = path
		idx := i
		g.Go(func() error {
			defer system.PutImage(frame)
			if err := writeFrame(path, frame); err != nil {
				return fmt.Errorf("кадр %d: %w", idx, err)
			}
			fmt.Printf("[>] Ready: %d/%d\n", idx+1, count)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if navErr != nil {
		return nil, navErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report.Render = time.Since(startTime)

	if p.Config.OutputVideo != "" {
		encodeStart := time.Now()
		encoderName := p.EncoderName
		if encoderName == "" {
			encoderName = system.GetBestH264Encoder()
			if encoderName != "libx264" {
				fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
			}
		}

		fmt.Println("[*] Сборка видео из слайдов...")
		params := config.VideoParams{
			Width:         p.Config.Width,
			Height:        p.Config.Height,
			FPS:           p.Config.FPS,
			SlideDuration: p.Config.SlideDuration,
			Encoder:       encoderName,
			Quality:       system.DefaultQuality(encoderName),
		}
		if err := p.Encoder.EncodeSlides(ctx, pattern, p.Config.OutputVideo, params); err != nil {
			return nil, fmt.Errorf("ошибка сборки видео: %w", err)
		}
		report.Video = p.Config.OutputVideo
		report.Encode = time.Since(encodeStart)
	}

	report.Total = time.Since(startTime)
	if p.Config.ShowStats {
		p.printStats(report, count)
	}
	return report, nil
}

func (p *Exporter) printStats(r *Report, count int) {
	fps := float64(count) / r.Total.Seconds()
	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering: %.2fs\n"+
			"Encoding: %.2fs\n"+
			"Slides/s: %.2f\n"+
			"%s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, r.Total.Seconds(), r.Render.Seconds(), r.Encode.Seconds(), fps, system.MemoryReport(),
	)

	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Slides: %d | Total: %.2fs | Render: %.2fs | Encode: %.2fs\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		count,
		r.Total.Seconds(),
		r.Render.Seconds(),
		r.Encode.Seconds(),
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}

func writeFrame(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	default:
		err = png.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
