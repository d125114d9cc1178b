package langdetect_test

import (
	"testing"

	"github.com/desistd/desist/internal/langdetect"
)

func TestDetect(t *testing.T) {
	d := langdetect.NewTrigram()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty text", "", langdetect.Unknown},
		{"whitespace only", "  \n\t  ", langdetect.Unknown},
		{
			"english letter",
			"You are hereby directed to cease and desist all communications with our client effective immediately upon receipt of this letter.",
			"eng",
		},
		{
			"spanish letter",
			"Por la presente se le ordena cesar toda comunicación con nuestro cliente de manera inmediata tras la recepción de esta carta.",
			"spa",
		},
		{
			"german letter",
			"Hiermit werden Sie aufgefordert, jegliche Kommunikation mit unserem Mandanten unverzüglich nach Erhalt dieses Schreibens einzustellen.",
			"deu",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.text)
			if got != tt.want {
				t.Errorf("Detect(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}
