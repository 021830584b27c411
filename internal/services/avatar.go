package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	types "github.com/yungbote/plancast-backend/internal/domain"
	"github.com/yungbote/plancast-backend/internal/platform/logger"
)

// AvatarService renders an initials avatar for a new user and stores it as a
// data URL on the user row, so no object store is needed.
type AvatarService interface {
	AssignInitialsAvatar(ctx context.Context, user *types.User) error
}

type avatarService struct {
	log      *logger.Logger
	bgColors []color.NRGBA
	fontFace font.Face
}

const avatarSize = 256

var defaultAvatarColors = []color.NRGBA{
	{R: 0x4C, G: 0x6E, B: 0xF5, A: 0xFF},
	{R: 0xF5, G: 0x6E, B: 0x4C, A: 0xFF},
	{R: 0x2E, G: 0xA4, B: 0x6B, A: 0xFF},
	{R: 0x9B, G: 0x59, B: 0xB6, A: 0xFF},
	{R: 0xE6, G: 0x7E, B: 0x22, A: 0xFF},
	{R: 0x16, G: 0xA0, B: 0x85, A: 0xFF},
}

func NewAvatarService(baseLog *logger.Logger) (AvatarService, error) {
	serviceLog := baseLog.With("service", "AvatarService")

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	var face font.Face
	if fontPath != "" {
		loaded, err := loadFontFace(fontPath, float64(avatarSize)*0.42)
		if err != nil {
			return nil, fmt.Errorf("could not load avatar font: %w", err)
		}
		face = loaded
	}

	return &avatarService{
		log:      serviceLog,
		bgColors: defaultAvatarColors,
		fontFace: face,
	}, nil
}

func (as *avatarService) AssignInitialsAvatar(ctx context.Context, user *types.User) error {
	if user == nil {
		return fmt.Errorf("user required")
	}

	bg := as.colorFor(user)
	user.AvatarColor = nrgbaToHex(bg)

	dc := gg.NewContext(avatarSize, avatarSize)
	dc.SetColor(bg)
	dc.DrawCircle(avatarSize/2, avatarSize/2, avatarSize/2)
	dc.Fill()

	if as.fontFace != nil {
		dc.SetFontFace(as.fontFace)
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(initials(user), avatarSize/2, avatarSize/2, 0.5, 0.54)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return fmt.Errorf("failed to encode avatar: %w", err)
	}

	user.AvatarDataURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	return nil
}

// colorFor picks a stable palette color from the user's email, so the same
// account always gets the same background.
func (as *avatarService) colorFor(user *types.User) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(user.Email))))
	return as.bgColors[int(h.Sum32())%len(as.bgColors)]
}

func initials(user *types.User) string {
	var b strings.Builder
	if f := strings.TrimSpace(user.FirstName); f != "" {
		b.WriteString(strings.ToUpper(f[:1]))
	}
	if l := strings.TrimSpace(user.LastName); l != "" {
		b.WriteString(strings.ToUpper(l[:1]))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

func loadFontFace(path string, points float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(raw)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}

func nrgbaToHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
