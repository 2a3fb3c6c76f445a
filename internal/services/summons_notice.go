package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

const (
	noticeWidth  = 800
	noticeHeight = 1000
	noticeMargin = 64.0
)

// NoticeRenderer draws printable hearing summons as PNGs. Construction
// fails when SUMMONS_FONT is unset; callers treat a nil renderer as
// "notices disabled".
type NoticeRenderer struct {
	log          *logger.Logger
	barangayName string
	municipality string

	headerFace font.Face
	titleFace  font.Face
	bodyFace   font.Face
}

func NewNoticeRenderer(log *logger.Logger, barangayName, municipality string) (*NoticeRenderer, error) {
	rendererLog := log.With("service", "NoticeRenderer")

	fontPath := os.Getenv("SUMMONS_FONT")
	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("env var SUMMONS_FONT is empty")
	}
	rendererLog.Info("Loading summons font", "font", fontPath)

	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	newFace := func(size float64) font.Face {
		return truetype.NewFace(parsedFont, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	}

	return &NoticeRenderer{
		log:          rendererLog,
		barangayName: barangayName,
		municipality: municipality,
		headerFace:   newFace(26),
		titleFace:    newFace(34),
		bodyFace:     newFace(18),
	}, nil
}

// RenderHearingNotice produces the summons page for one hearing:
// letterhead, case caption, parties, and the schedule line.
func (nr *NoticeRenderer) RenderHearingNotice(summonCase *types.SummonCase, hearing *types.SummonHearing) ([]byte, error) {
	dc := gg.NewContext(noticeWidth, noticeHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)

	y := noticeMargin

	dc.SetFontFace(nr.headerFace)
	y = nr.drawCentered(dc, "Republic of the Philippines", y)
	y = nr.drawCentered(dc, nr.municipality, y)
	y = nr.drawCentered(dc, nr.barangayName, y)
	y = nr.drawCentered(dc, "Office of the Lupong Tagapamayapa", y)

	y += 16
	dc.SetLineWidth(2)
	dc.DrawLine(noticeMargin, y, noticeWidth-noticeMargin, y)
	dc.Stroke()
	y += 48

	dc.SetFontFace(nr.titleFace)
	y = nr.drawCentered(dc, "SUMMONS", y)
	y += 24

	dc.SetFontFace(nr.bodyFace)
	y = nr.drawLine(dc, fmt.Sprintf("Barangay Case No. %s", summonCase.CaseNumber), y)
	if summonCase.Nature != "" {
		y = nr.drawLine(dc, fmt.Sprintf("For: %s", summonCase.Nature), y)
	}
	y += 16

	y = nr.drawLine(dc, fmt.Sprintf("Complainant(s): %s", joinParties(summonCase.Complainants)), y)
	y = nr.drawLine(dc, fmt.Sprintf("Respondent(s): %s", joinParties(summonCase.Respondents)), y)
	y += 24

	y = nr.drawWrapped(dc, fmt.Sprintf(
		"You are hereby summoned to appear before the Punong Barangay for hearing no. %d of the "+
			"above-captioned case, to answer the complaint and to be bound over for amicable settlement.",
		hearing.Number), y)
	y += 16

	y = nr.drawLine(dc, fmt.Sprintf("Date and time: %s", hearing.ScheduledAt.Format("January 2, 2006 at 3:04 PM")), y)
	if hearing.Venue != "" {
		y = nr.drawLine(dc, fmt.Sprintf("Venue: %s", hearing.Venue), y)
	}
	y += 48

	y = nr.drawWrapped(dc,
		"Failure to appear without justifiable cause may bar the complaint or counterclaim and may "+
			"subject the absent party to punishment for contempt.", y)
	y += 64

	nr.drawLine(dc, "Punong Barangay / Lupon Chairman", y)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (nr *NoticeRenderer) drawCentered(dc *gg.Context, text string, y float64) float64 {
	tw, th := dc.MeasureString(text)
	dc.DrawString(text, (noticeWidth-tw)/2, y+th)
	return y + th + 12
}

func (nr *NoticeRenderer) drawLine(dc *gg.Context, text string, y float64) float64 {
	_, th := dc.MeasureString(text)
	dc.DrawString(text, noticeMargin, y+th)
	return y + th + 12
}

func (nr *NoticeRenderer) drawWrapped(dc *gg.Context, text string, y float64) float64 {
	lines := dc.WordWrap(text, noticeWidth-2*noticeMargin)
	for _, line := range lines {
		y = nr.drawLine(dc, line, y)
	}
	return y
}

func joinParties(raw []byte) string {
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil || len(names) == 0 {
		return "(unnamed)"
	}
	return strings.Join(names, ", ")
}
