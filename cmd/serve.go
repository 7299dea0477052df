package cmd

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"lyscore/constants"
	"lyscore/frac"
	"lyscore/midi"
	"lyscore/model"
	"lyscore/parse"
	"lyscore/pitch"
	"lyscore/score"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the renderer over http",
	Long:  `Serve the renderer over http`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func writeError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

// renderBytes runs the full pipeline on raw SMF bytes. Range and key
// come from the query so the handler stays stateless.
func renderBytes(dat []byte, q map[string]string) (string, error) {
	smfFile, err := midi.Read(dat)
	if err != nil {
		return "", err
	}
	events, err := midi.ExtractEvents(smfFile)
	if err != nil {
		return "", err
	}

	start := frac.New(0, 1)
	if s := q["start"]; s != "" {
		if start, err = frac.Parse(s); err != nil {
			return "", err
		}
	}
	end := events.End
	if s := q["end"]; s != "" {
		if end, err = frac.Parse(s); err != nil {
			return "", err
		}
	}
	part, err := parse.Part(events, model.TimeRange{Start: start, End: end})
	if err != nil {
		return "", err
	}

	settings := score.DefaultRenderSettings()
	if s := q["key"]; s != "" {
		key, err := pitch.ParseKey(s, q["scale"])
		if err != nil {
			return "", err
		}
		settings.Key = key
	}
	return part.RenderLilypond(settings), nil
}

func handleRender(w http.ResponseWriter, r *http.Request) {
	dat, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, "could not read request body: "+err.Error(), 400)
		return
	}
	if len(dat) == 0 {
		writeError(w, "empty request body, expected a midi file", 400)
		return
	}

	q := make(map[string]string)
	for name, vals := range r.URL.Query() {
		if len(vals) > 0 {
			q[name] = vals[0]
		}
	}

	text, err := renderBytes(dat, q)
	if err != nil {
		writeError(w, err.Error(), 422)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.RenderResponse{Lilypond: text})
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/render", handleRender).Methods("POST")

	addr := constants.GetServeAddr()
	log.Printf("listening on %v\n", addr)
	log.Fatal(http.ListenAndServe(addr, cors.Default().Handler(router)))
}
