// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-utilizer/internal/capture"
	"github.com/pdiddy/pdf-utilizer/internal/engine"
	"github.com/pdiddy/pdf-utilizer/internal/httputil"
	"github.com/pdiddy/pdf-utilizer/internal/operation"
)

var ttsCmd = newOperationCommand(opCommand{
	op:      operation.TextToSpeech,
	use:     "tts <file.pdf>",
	short:   "Read a PDF aloud into an MP3",
	request: fileRequest("file", nil),
})

var sttCmd = newOperationCommand(opCommand{
	op:    operation.SpeechToText,
	use:   "stt <audio-file>",
	short: "Transcribe an audio file into a PDF",
	long: `Stt uploads an audio file, saves the transcription PDF, and prints the
transcribed text returned alongside it.`,
	request: fileRequest("audio", nil),
	done:    printTranscript,
})

var sttCaptureCmd = newOperationCommand(opCommand{
	op:    operation.SpeechCapture,
	use:   "stt-capture [--duration 5s | --input clip.wav]",
	short: "Record from the microphone and transcribe it",
	long: `Stt-capture records from the default microphone with ffmpeg or arecord,
whichever is installed, and sends the audio for transcription. Use --input
to send an existing recording instead; "-" reads standard input.`,
	args: cobra.NoArgs,
	flags: func(cmd *cobra.Command) {
		cmd.Flags().Duration("duration", capture.DefaultDuration, "recording length")
		cmd.Flags().String("input", "", "send this recording instead of using the microphone")
	},
	request: captureRequest,
	done:    printTranscript,
})

func captureRequest(cmd *cobra.Command, _ []string) (operation.Request, error) {
	a, err := services()
	if err != nil {
		return operation.Request{}, err
	}

	src, closeSrc, err := captureSource(cmd)
	if err != nil {
		return operation.Request{}, err
	}
	defer closeSrc()

	if d, ok := src.(interface{ Duration() time.Duration }); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Recording %s with %s...\n", d.Duration(), src.Name())
	}
	adapter := capture.NewAdapter(src, a.logger)
	audio, err := adapter.Capture(cmd.Context())
	if err != nil {
		return operation.Request{}, err
	}
	return adapter.Request(audio), nil
}

func captureSource(cmd *cobra.Command) (capture.Source, func(), error) {
	input, _ := cmd.Flags().GetString("input")
	switch input {
	case "":
		d, _ := cmd.Flags().GetDuration("duration")
		src, err := capture.DetectRecorder(cmd.Context(), d)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {}, nil
	case "-":
		return capture.ReaderSource{Label: "stdin", Reader: cmd.InOrStdin()}, func() {}, nil
	default:
		f, err := os.Open(input)
		if err != nil {
			return nil, nil, fmt.Errorf("opening recording: %w", err)
		}
		return capture.ReaderSource{Label: input, Reader: f}, func() { f.Close() }, nil
	}
}

func printTranscript(cmd *cobra.Command, out engine.Outcome) {
	if text, ok := out.Metadata[httputil.TranscriptionHeader]; ok && text != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Transcription: %s\n", text)
	}
}

func init() {
	rootCmd.AddCommand(ttsCmd)
	rootCmd.AddCommand(sttCmd)
	rootCmd.AddCommand(sttCaptureCmd)
}
