package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/quaverlab/quaver/abc"
	"github.com/quaverlab/quaver/file"
	"github.com/quaverlab/quaver/midi"
	"github.com/quaverlab/quaver/music"
	"github.com/quaverlab/quaver/musicxml"
	"github.com/quaverlab/quaver/validate"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the toolkit over HTTP",
	Long:  `Serves conversion, validation and encoding over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func getServeAddr() string {
	if addr := os.Getenv("QUAVER_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

type errorResponse struct {
	Error string `json:"detail"`
}

type validateResponse struct {
	Valid      bool                 `json:"valid"`
	Violations []validate.Violation `json:"violations"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// readMusicBody decodes the canonical JSON form from a request body.
func readMusicBody(r *http.Request) (*music.Music, error) {
	m, err := file.ReadJSON(r.Body)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// HandleValidate reports violations for a piece posted as canonical JSON.
func HandleValidate(w http.ResponseWriter, r *http.Request) {
	m, err := readMusicBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	vs, err := validate.Check(m)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if vs == nil {
		vs = []validate.Violation{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: len(vs) == 0, Violations: vs})
}

// HandleConvert renders a piece posted as canonical JSON into the format
// named by the "to" query parameter.
func HandleConvert(w http.ResponseWriter, r *http.Request) {
	m, err := readMusicBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	switch to := r.URL.Query().Get("to"); to {
	case file.FormatJSON, "":
		w.Header().Set("Content-Type", "application/json")
		file.WriteJSON(w, m)
	case file.FormatYAML:
		w.Header().Set("Content-Type", "application/yaml")
		file.WriteYAML(w, m)
	case file.FormatABC:
		data, err := abc.Encode(m)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write(data)
	case file.FormatMusicXML:
		data, err := musicxml.Encode(m)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Write(data)
	case file.FormatMIDI:
		data, err := midi.Encode(m)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		w.Header().Set("Content-Type", "audio/midi")
		w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown target format %q", to))
	}
}

// HandleEncode tokenizes a piece posted as canonical JSON with the
// representation named in the URL.
func HandleEncode(w http.ResponseWriter, r *http.Request) {
	m, err := readMusicBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	out, err := encodeMusic(m, mux.Vars(r)["repr"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewRouter wires up the HTTP API.
func NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", handleHealth).Methods("GET")
	r.HandleFunc("/validate", HandleValidate).Methods("POST")
	r.HandleFunc("/convert", HandleConvert).Methods("POST")
	r.HandleFunc("/encode/{repr}", HandleEncode).Methods("POST")
	return r
}

func serve() {
	addr := getServeAddr()
	handler := cors.Default().Handler(NewRouter())
	fmt.Printf("Listening on %v\n", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
