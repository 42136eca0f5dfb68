package film

import (
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"
)

//go:embed templates/contact_sheet.html
var contactSheetTemplate string

var contactSheet = template.Must(template.New("contact").Parse(contactSheetTemplate))

type contactShot struct {
	Shot
	DataURL template.URL
}

type contactData struct {
	Run        string
	Duration   time.Duration
	ThumbWidth int
	Shots      []contactShot
}

// WriteContactSheet renders a reel as one self-contained HTML page with
// every shot embedded as a data URL, captioned with its phase and tempo.
func WriteContactSheet(reel *Reel, w io.Writer) error {
	data := contactData{
		Run:        string(reel.Run),
		Duration:   reel.Duration,
		ThumbWidth: 120,
		Shots:      make([]contactShot, 0, len(reel.Shots)),
	}
	for _, shot := range reel.Shots {
		url, err := imageDataURL(shot.Path)
		if err != nil {
			return err
		}
		data.Shots = append(data.Shots, contactShot{Shot: shot, DataURL: url})
	}
	return contactSheet.Execute(w, data)
}

// SaveContactSheet writes index.html into the reel directory and returns its
// path.
func SaveContactSheet(reel *Reel) (string, error) {
	path := filepath.Join(reel.Dir, "index.html")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WriteContactSheet(reel, file); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write contact sheet: %w", err)
	}
	return path, file.Close()
}

func imageDataURL(path string) (template.URL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read shot: %w", err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data)), nil
}
