package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ivlev/geoslides/internal/config"
	"github.com/ivlev/geoslides/internal/export"
	"github.com/ivlev/geoslides/internal/navigator"
	"github.com/ivlev/geoslides/internal/render"
	"github.com/ivlev/geoslides/internal/scene"
	"github.com/ivlev/geoslides/internal/script"
	"github.com/ivlev/geoslides/internal/system"
	"github.com/ivlev/geoslides/internal/terminal"
)

// BuildVersion задается при сборке: -ldflags "-X main.BuildVersion=..."
var BuildVersion = "dev"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	for _, d := range []string{"input/scripts", "output"} {
		os.MkdirAll(d, 0755)
	}

	configPtr := flag.String("config", "", "YAML-файл с настройками (флаги имеют приоритет)")
	inputPtr := flag.String("input", "", "Путь к сценарию (по умолчанию: самый свежий файл в input/scripts/)")
	slidesPtr := flag.String("slides", "", "Шаблон слайдов, например output/lesson.png -> lesson000.png, lesson001.png, ...")
	videoPtr := flag.String("video", "", "Собрать слайды в видео (mp4)")
	interactivePtr := flag.Bool("interactive", false, "Показать сценарий в терминале (по умолчанию, если нет -slides/-video/-check/-dump)")
	checkPtr := flag.Bool("check", false, "Пройти все шаги без отрисовки и вывести ошибки")
	dumpPtr := flag.String("dump", "", "Сохранить разобранный сценарий в YAML")
	widthPtr := flag.Int("width", 800, "Ширина")
	heightPtr := flag.Int("height", 800, "Высота")
	workersPtr := flag.Int("workers", system.DefaultWorkers(), "Потоки")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")

	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения конфигурации: %v", err)
		}
		cfg = loaded
	}

	// Флаги перекрывают конфигурацию, только если заданы явно
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = *inputPtr
		case "slides":
			cfg.Slides = *slidesPtr
		case "video":
			cfg.OutputVideo = *videoPtr
		case "width":
			cfg.Width = *widthPtr
		case "height":
			cfg.Height = *heightPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		}
	})
	if *configPtr == "" {
		cfg.Workers = *workersPtr
	}
	cfg.BuildVersion = BuildVersion

	if cfg.InputPath == "" {
		latest, err := system.FindLatestScript("input/scripts")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите сценарий в input/scripts/", err)
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Выбран файл: %s\n", cfg.InputPath)
	}

	if cfg.OutputVideo != "" && cfg.Slides == "" {
		cfg.Slides = filepath.Join("output", slideName(cfg.InputPath), "slide.png")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Некорректная конфигурация: %v", err)
	}

	deck, err := loadDeck(cfg.InputPath)
	if err != nil {
		log.Fatalf("[-] Ошибка разбора сценария: %v", err)
	}
	fmt.Printf("[*] Шагов: %d | Подшагов: %d\n", len(deck.Steps), deck.Len())

	batch := false

	if *dumpPtr != "" {
		batch = true
		if err := script.WriteDeck(deck, *dumpPtr); err != nil {
			log.Fatalf("[-] Ошибка сохранения: %v", err)
		}
		fmt.Printf("[+++] Сценарий сохранен: %s\n", *dumpPtr)
	}

	if *checkPtr {
		batch = true
		if n := check(deck, cfg); n > 0 {
			log.Fatalf("[-] Найдено ошибок: %d", n)
		}
		fmt.Println("[+++] Ошибок не найдено")
	}

	if cfg.Slides != "" {
		batch = true
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		report, err := export.New(cfg, deck).Run(ctx)
		if err != nil {
			log.Fatalf("[-] Ошибка экспорта: %v", err)
		}
		fmt.Printf("[+++] Успех! Слайдов: %d (%s)\n", len(report.Frames), export.FramePattern(cfg.Slides))
		if report.Video != "" {
			fmt.Printf("[+++] Видео: %s\n", report.Video)
		}
	}

	if *interactivePtr || !batch {
		if err := interactive(deck, cfg); err != nil {
			log.Fatalf("[-] Ошибка терминала: %v", err)
		}
	}
}

func loadDeck(path string) (*script.Deck, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return script.ReadDeck(path)
	}
	return script.ReadFile(path)
}

// check проходит все подшаги на записывающем бэкенде.
func check(deck *script.Deck, cfg *config.Config) int {
	start := time.Now()
	rec := render.NewRecorder()
	nav := navigator.New(deck, scene.New(rec), cfg.Viewport())

	failed := 0
	for i := 0; i < deck.Len(); i++ {
		if _, err := nav.Next(); err != nil {
			c := nav.Cursor()
			log.Printf("[!] Шаг %d, подшаг %d: %v", c.Step+1, c.SubStep+1, err)
			failed++
		}
	}
	if cfg.ShowStats {
		fmt.Printf("[*] Проверка: %d подшагов за %s, вызовов отрисовки: %d\n", deck.Len(), time.Since(start), rec.Calls())
	}
	return failed
}

func interactive(deck *script.Deck, cfg *config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	return terminal.NewHost(screen, deck, cfg).Run()
}

func slideName(input string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(name, " ", "_") + "_" + time.Now().Format("2006-01-02_15-04-05")
}
