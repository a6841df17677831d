// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"image-labeler/internal/catalog"
	"image-labeler/internal/session"
	"image-labeler/ui/imageview"
	"image-labeler/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *session.Controller
	prefs   *prefs.Prefs

	view           *imageview.View
	pathLabel      *widget.Label
	lensLabel      *widget.Label
	focusLabel     *widget.Label
	visLabel       *widget.Label
	contrastSlider *widget.Slider
	labelRadio     *widget.RadioGroup
	progressLabel  *widget.Label

	// Guards against OnChanged firing while the UI is being synced to the
	// controller's state rather than by the user.
	syncing bool
}

// New creates the main window over a session controller.
func New(fyneApp fyne.App, ctrl *session.Controller, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Image Labeling Tool")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: ctrl,
		prefs:   p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.view = imageview.New()

	mw.pathLabel = widget.NewLabel("No image loaded")
	mw.lensLabel = widget.NewLabel("N/A")
	mw.focusLabel = widget.NewLabel("N/A")
	mw.visLabel = widget.NewLabel("N/A")

	metrics := widget.NewCard("Image Metrics", "", container.NewVBox(
		container.NewHBox(widget.NewLabel("Lens Score:"), mw.lensLabel),
		container.NewHBox(widget.NewLabel("Focus:"), mw.focusLabel),
		container.NewHBox(widget.NewLabel("Visibility:"), mw.visLabel),
	))

	header := container.NewBorder(nil, nil, nil, metrics, mw.pathLabel)

	originalBtn := widget.NewButton("Original (O)", mw.onShowOriginal)
	enhancedBtn := widget.NewButton("Enhanced (E)", mw.onShowEnhanced)
	spectrumBtn := widget.NewButton("Spectrum (F)", mw.onShowSpectrum)
	viewButtons := container.NewHBox(originalBtn, enhancedBtn, spectrumBtn)

	mw.contrastSlider = widget.NewSlider(0, 200)
	mw.contrastSlider.Step = 1
	mw.contrastSlider.Value = 100
	mw.contrastSlider.OnChanged = mw.onContrastChanged
	contrastRow := container.NewBorder(nil, nil, widget.NewLabel("Contrast:"), nil, mw.contrastSlider)

	mw.labelRadio = widget.NewRadioGroup(mw.session.LabelSet().Names(), mw.onLabelSelected)
	mw.labelRadio.Horizontal = true
	labelCard := widget.NewCard("Image Label", "", mw.labelRadio)

	prevBtn := widget.NewButton("Previous", mw.onPrevious)
	nextBtn := widget.NewButton("Next", mw.onNext)
	navRow := container.NewBorder(nil, nil, prevBtn, nextBtn, labelCard)

	mw.progressLabel = widget.NewLabel("0/0 images labeled")

	controls := container.NewVBox(viewButtons, contrastRow, navRow, mw.progressLabel)

	content := container.NewBorder(
		header,   // top
		controls, // bottom
		nil,      // left
		nil,      // right
		mw.view.Container(),
	)
	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Directory...", mw.onOpenDirectory),
		fyne.NewMenuItem("Review Labeled...", mw.onReviewLabeled),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

// setupShortcuts binds the keyboard-driven review flow: arrows navigate,
// digits label, O/E/F switch views.
func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyLeft:
			mw.onPrevious()
		case fyne.KeyRight:
			mw.onNext()
		}
	})

	mw.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 'o', 'O':
			mw.onShowOriginal()
		case 'e', 'E':
			mw.onShowEnhanced()
		case 'f', 'F':
			mw.onShowSpectrum()
		default:
			code := string(r)
			if mw.session.LabelSet().Contains(code) {
				mw.applyLabel(code)
			}
		}
	})
}

// setupEventHandlers registers for controller events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(session.EventImageShown, func(data interface{}) {
		mw.refreshHeader()
	})
	mw.session.On(session.EventLabelSaved, func(data interface{}) {
		mw.refreshProgress()
	})
	mw.session.On(session.EventCatalogLoaded, func(data interface{}) {
		mw.refreshProgress()
	})
}

// PromptMode asks whether to label a new directory or review existing
// labels, mirroring the startup flow.
func (mw *MainWindow) PromptMode() {
	d := dialog.NewConfirm("Select Mode",
		"Would you like to open a new directory for labeling?\n\n"+
			"Confirm to choose a directory, dismiss to review\n"+
			"already-labeled images.",
		func(openDir bool) {
			if openDir {
				mw.onOpenDirectory()
			} else {
				mw.onReviewLabeled()
			}
		}, mw.Window)
	d.SetConfirmText("Open Directory")
	d.SetDismissText("Review Labeled")
	d.Show()
}

func (mw *MainWindow) onOpenDirectory() {
	fd := dialog.NewFolderOpen(func(list fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if list == nil {
			return
		}
		mw.openDirectory(list.Path())
	}, mw.Window)
	if last := mw.lastDir(); last != nil {
		fd.SetLocation(last)
	}
	fd.Show()
}

func (mw *MainWindow) openDirectory(path string) {
	count, err := mw.session.OpenDirectory(path)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if count == 0 {
		dialog.ShowInformation("No Images Found",
			"No supported image files found in the selected directory.", mw.Window)
		return
	}

	logrus.WithFields(logrus.Fields{"dir": path, "count": count}).Info("directory opened")
	mw.prefs.SetString(prefs.KeyLastDir, path)
	mw.SetTitle("Image Labeling Tool - " + filepath.Base(path))
	mw.onNext()
}

func (mw *MainWindow) onReviewLabeled() {
	set := mw.session.LabelSet()
	choice := widget.NewRadioGroup(set.Names(), nil)
	choice.SetSelected(set.NameFor("0"))

	d := dialog.NewCustomConfirm("Select Label to Review", "Confirm", "Cancel",
		container.NewVBox(widget.NewLabel("Select label to review:"), choice),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			code := set.CodeFor(choice.Selected)
			count, err := mw.session.OpenReviewSet(code)
			if err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			if count == 0 {
				dialog.ShowInformation("No Images Found",
					fmt.Sprintf("No images found with label %q", choice.Selected), mw.Window)
				return
			}
			mw.SetTitle("Image Labeling Tool - Review: " + choice.Selected)
			mw.onNext()
		}, mw.Window)
	d.Show()
}

func (mw *MainWindow) onNext() {
	mw.showNavigated(mw.session.Next())
}

func (mw *MainWindow) onPrevious() {
	mw.showNavigated(mw.session.Previous())
}

// showNavigated renders a navigation result. A decode failure leaves the
// current display in place; the cursor has already moved, so the next
// navigation continues from the bad file's neighbor.
func (mw *MainWindow) showNavigated(img image.Image, err error) {
	if errors.Is(err, catalog.ErrNoImages) {
		dialog.ShowInformation("No Images", "No images to navigate. Open a directory first.", mw.Window)
		return
	}
	if err != nil {
		logrus.WithError(err).Warn("image load failed")
		dialog.ShowError(err, mw.Window)
		return
	}

	mw.view.SetImage(img)
	mw.resetContrastSlider()
}

func (mw *MainWindow) onContrastChanged(value float64) {
	if mw.syncing {
		return
	}
	if img := mw.session.SetContrast(value); img != nil {
		mw.view.SetImage(img)
	}
}

func (mw *MainWindow) onShowOriginal() {
	if img := mw.session.ShowOriginal(); img != nil {
		mw.view.SetImage(img)
		mw.resetContrastSlider()
	}
}

func (mw *MainWindow) onShowEnhanced() {
	if img := mw.session.ShowEnhanced(); img != nil {
		mw.view.SetImage(img)
	}
}

func (mw *MainWindow) onShowSpectrum() {
	if img := mw.session.ShowSpectral(); img != nil {
		mw.view.SetImage(img)
	}
}

func (mw *MainWindow) onLabelSelected(name string) {
	if mw.syncing || name == "" {
		return
	}
	mw.applyLabel(mw.session.LabelSet().CodeFor(name))
}

func (mw *MainWindow) applyLabel(code string) {
	if err := mw.session.SetLabel(code); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.syncing = true
	mw.labelRadio.SetSelected(mw.session.LabelSet().NameFor(code))
	mw.syncing = false
}

// refreshHeader updates the path, metrics, and label selection for the
// current image.
func (mw *MainWindow) refreshHeader() {
	path, parentDir, ok := mw.session.CurrentInfo()
	if !ok {
		mw.pathLabel.SetText("No image loaded")
		return
	}
	mw.pathLabel.SetText(fmt.Sprintf("Directory: %s\nImage: %s", parentDir, filepath.Base(path)))

	m := mw.session.CurrentMetrics()
	mw.lensLabel.SetText(m.LensScore)
	mw.focusLabel.SetText(m.Focus)
	mw.visLabel.SetText(m.Visibility)

	mw.syncing = true
	mw.labelRadio.SetSelected(mw.session.LabelSet().NameFor(mw.session.CurrentLabel()))
	mw.syncing = false

	mw.refreshProgress()
}

func (mw *MainWindow) refreshProgress() {
	labeled, total := mw.session.LabelingProgress()
	mw.progressLabel.SetText(fmt.Sprintf("%d/%d images labeled", labeled, total))
}

func (mw *MainWindow) resetContrastSlider() {
	mw.syncing = true
	mw.contrastSlider.SetValue(100)
	mw.syncing = false
}

// lastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) lastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) onAbout() {
	var shortcuts strings.Builder
	shortcuts.WriteString("Keyboard Shortcuts:\n")
	shortcuts.WriteString("← Previous Image\n→ Next Image\n")
	for _, l := range mw.session.LabelSet().Labels {
		fmt.Fprintf(&shortcuts, "%s Label as %s\n", l.Code, l.Name)
	}
	shortcuts.WriteString("O Show Original Image\nE Show Enhanced Image\nF Show Spectrum View")

	dialog.ShowInformation("About Image Labeling Tool",
		"A tool for efficiently labeling images as live or fake captures.\n\n"+
			shortcuts.String(), mw.Window)
}
