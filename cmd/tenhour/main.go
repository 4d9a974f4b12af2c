package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"

	"github.com/amathers/10-hour-video/internal/config"
	"github.com/amathers/10-hour-video/internal/download"
	"github.com/amathers/10-hour-video/internal/extend"
	"github.com/amathers/10-hour-video/internal/model"
	"github.com/amathers/10-hour-video/internal/platform"
	"github.com/amathers/10-hour-video/internal/upload"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	appName = "tenhour"
	logFile = "video_looper.log"
)

func main() {
	var (
		urlFlag      = flag.String("url", "", "YouTube video URL (prompted if omitted)")
		duration     = flag.Float64("duration", config.DefaultDurationHours, "Target duration in hours")
		quality      = flag.String("quality", string(config.DefaultQuality), "Video quality (best|medium|worst|360p|480p|720p|1080p)")
		downloadsDir = flag.String("downloads-dir", config.DefaultDownloadsDir, "Directory for downloads")
		outputDir    = flag.String("output-dir", config.DefaultOutputDir, "Directory for output")
		engine       = flag.String("engine", string(config.DefaultEngine), "Download engine (auto|ytdlp|native)")
		keepOriginal = flag.Bool("keep-original", false, "Keep the downloaded original video after processing")
		reencode     = flag.Bool("reencode", false, "Re-encode instead of stream copy (much slower)")
		uploadFlag   = flag.Bool("upload", false, "Upload the result to YouTube when done")
		title        = flag.String("title", "", "Title for the uploaded video")
		privacy      = flag.String("privacy", config.DefaultPrivacy, "Privacy for the uploaded video (public|unlisted|private)")
		configPath   = flag.String("config", "", "Path to a YAML config file")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion  = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", appName, version)
		return
	}

	setupLogging(*verbose)

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Flags set on the command line win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			settings.DurationHours = *duration
		case "quality":
			settings.Quality = config.QualityPreset(*quality)
		case "downloads-dir":
			settings.DownloadsDir = *downloadsDir
		case "output-dir":
			settings.OutputDir = *outputDir
		case "engine":
			settings.Engine = config.Engine(*engine)
		case "keep-original":
			settings.KeepOriginal = *keepOriginal
		case "reencode":
			settings.Reencode = *reencode
		case "privacy":
			settings.Upload.Privacy = *privacy
		}
	})

	if err := settings.Validate(); err != nil {
		log.Errorf("Validation error: %v", err)
		os.Exit(1)
	}

	url := strings.TrimSpace(*urlFlag)
	if url == "" {
		url = promptURL()
	}
	if url == "" {
		log.Error("No URL provided")
		os.Exit(1)
	}
	if !platform.IsValidYouTubeURL(url) {
		log.Errorf("Invalid YouTube URL: %s", url)
		os.Exit(1)
	}
	if id, err := platform.ExtractVideoID(url); err == nil {
		log.Debugf("Video ID: %s", id)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, url, settings, *uploadFlag, *title); err != nil {
		if ctx.Err() != nil {
			log.Warn("Process interrupted by user")
		} else {
			log.Errorf("Error: %v", err)
		}
		os.Exit(1)
	}
}

// run executes the download → loop → cleanup → upload pipeline
func run(ctx context.Context, url string, settings *config.Settings, uploadResult bool, uploadTitle string) error {
	for _, dir := range []string{settings.DownloadsDir, settings.OutputDir} {
		if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
			return err
		}
	}

	// Step 1: download
	log.Info("STEP 1: Downloading video")
	log.Infof("Fetching video from: %s", url)

	downloadSvc := download.NewService(settings.DownloadsDir, settings.Quality, settings.Engine)
	downloadSvc.SetUpdateCallback(downloadProgressPrinter())

	task, err := downloadSvc.AddTask(url)
	if err != nil {
		return err
	}
	if err := downloadSvc.Download(ctx, task); err != nil {
		return err
	}

	log.Infof("Download completed: %s", task.OutputPath)
	log.Infof("File size: %.2f MB", platform.FileSizeMB(task.OutputPath))

	// Step 2: extend by looping
	log.Info("STEP 2: Creating extended version")

	extendSvc := extend.NewService(settings.OutputDir, settings.Reencode)
	extendSvc.SetUpdateCallback(loopProgressPrinter())

	loopTask, err := extendSvc.Extend(ctx, task.OutputPath, settings.DurationHours)
	if err != nil {
		return err
	}

	// Step 3: cleanup
	if !settings.KeepOriginal {
		log.Info("Cleaning up original downloaded video...")
		platform.CleanupFile(task.OutputPath)
	}

	// Step 4: optional upload
	if uploadResult {
		log.Info("STEP 3: Uploading to YouTube")
		uploadSvc := upload.NewService(settings.Upload.ClientSecretsFile, settings.Upload.TokenFile)
		videoID, err := uploadSvc.Upload(ctx, loopTask.OutputPath, upload.Metadata{
			Title:      uploadTitle,
			CategoryID: settings.Upload.CategoryID,
			Privacy:    settings.Upload.Privacy,
		})
		if err != nil {
			return err
		}
		log.Infof("Published: https://www.youtube.com/watch?v=%s", videoID)
	}

	log.Info("SUCCESS!")
	log.Infof("Extended video saved to: %s", loopTask.OutputPath)
	log.Infof("Duration: %v hours", settings.DurationHours)
	fmt.Println(loopTask.OutputPath)
	return nil
}

// setupLogging configures logrus to write to stderr and the log file
func setupLogging(verbose bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Warnf("Failed to open log file %s: %v", logFile, err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
}

// promptURL asks the user for a URL on stdin
func promptURL() string {
	fmt.Print("Please enter the YouTube URL: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// downloadProgressPrinter renders download task updates as a progress bar
func downloadProgressPrinter() func(*model.DownloadTask) {
	var bar *progressbar.ProgressBar
	return func(task *model.DownloadTask) {
		switch {
		case task.Status == model.TaskStatusDownloading && task.Percent > 0:
			if bar == nil {
				bar = progressbar.Default(100, "Downloading")
			}
			bar.Set(task.Percent)
		case task.Status.IsFinished() && bar != nil:
			bar.Finish()
			bar = nil
		}
	}
}

// loopProgressPrinter renders loop task updates as a progress bar
func loopProgressPrinter() func(*model.LoopTask) {
	var bar *progressbar.ProgressBar
	return func(task *model.LoopTask) {
		switch {
		case task.Status == model.TaskStatusProcessing && task.Percent > 0:
			if bar == nil {
				bar = progressbar.Default(100, "Processing")
			}
			bar.Set(task.Percent)
		case task.Status.IsFinished() && bar != nil:
			bar.Finish()
			bar = nil
		}
	}
}
