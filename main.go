// Package main provides the entry point for the image labeling tool.
package main

import (
	"flag"
	"path/filepath"
	"strings"

	"image-labeler/internal/labels"
	"image-labeler/internal/session"
	"image-labeler/internal/version"
	"image-labeler/ui/mainwindow"
	"image-labeler/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"
)

const appTitle = "Image Labeling Tool"

const (
	defaultLabelFile = "image_labels.csv"
	metricsFileName  = "image_info.csv"
)

func main() {
	csvPath := flag.String("csv", "", "path to the label CSV file (default: "+defaultLabelFile+" in the working directory)")
	labelSet := flag.String("labelset", "", "label set variant: extended or reduced")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.WithField("version", version.Version).Infof("starting %s", appTitle)

	p := prefs.Load()

	labelPath := resolve(*csvPath, p.String(prefs.KeyLabelFile), defaultLabelFile)
	setName := resolve(*labelSet, p.String(prefs.KeyLabelSet), labels.Extended.Name)

	set, err := labels.SetByName(setName)
	if err != nil {
		logrus.WithError(err).Fatal("invalid label set")
	}

	store, err := labels.Open(labelPath)
	if err != nil {
		logrus.WithError(err).WithField("path", labelPath).Fatal("cannot open label store")
	}
	logrus.WithFields(logrus.Fields{"path": labelPath, "labels": store.Count()}).Info("label store loaded")

	metricsPath := filepath.Join(filepath.Dir(labelPath), metricsFileName)
	metrics, err := labels.LoadMetrics(metricsPath)
	if err != nil {
		logrus.WithError(err).Warn("metrics table unreadable, continuing without it")
		metrics = labels.EmptyMetrics()
	}

	ctrl := session.New(store, metrics, set)
	defer ctrl.Close()

	fyneApp := app.NewWithID("io.github.image-labeler")
	mw := mainwindow.New(fyneApp, ctrl, p)

	width := p.Float(prefs.KeyWindowWidth, 1024)
	height := p.Float(prefs.KeyWindowHeight, 768)
	mw.Resize(fyne.NewSize(float32(width), float32(height)))

	p.SetString(prefs.KeyLabelFile, labelPath)
	p.SetString(prefs.KeyLabelSet, set.Name)

	mw.SetCloseIntercept(func() {
		size := mw.Canvas().Size()
		p.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		p.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
		if err := p.Save(); err != nil {
			logrus.WithError(err).Warn("saving preferences failed")
		}
		mw.Close()
	})

	mw.Show()
	mw.PromptMode()
	fyneApp.Run()
}

// resolve picks the first non-empty value among a flag, a stored preference,
// and the built-in default.
func resolve(flagVal, prefVal, fallback string) string {
	if s := strings.TrimSpace(flagVal); s != "" {
		return s
	}
	if prefVal != "" {
		return prefVal
	}
	return fallback
}
