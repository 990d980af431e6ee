// Package main provides the moodtunes CLI client.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	moodv1 "github.com/osa030/moodtunes/internal/api/moodv1"
	"github.com/osa030/moodtunes/internal/api/moodv1/moodv1connect"
	"github.com/osa030/moodtunes/internal/app/playback"
	domainexport "github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/mood"
)

var (
	app    = kingpin.New("moodcli", "moodtunes command line client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").Envar("MOODTUNES_SERVER").String()

	// account
	loginCmd   = app.Command("login", "Sign in")
	loginEmail = loginCmd.Arg("email", "Email address").Required().String()
	loginName  = loginCmd.Arg("name", "Display name (defaults to the email's local part)").String()
	logoutCmd  = app.Command("logout", "Sign out and clear the session")
	whoamiCmd  = app.Command("whoami", "Show the signed-in user")

	// mood
	detectCmd      = app.Command("detect", "Detect a mood")
	detectTextCmd  = detectCmd.Command("text", "Classify free text")
	detectText     = detectTextCmd.Arg("text", "Text describing how you feel").Required().Strings()
	detectEmojiCmd = detectCmd.Command("emoji", "Classify a palette emoji")
	detectGlyph    = detectEmojiCmd.Arg("glyph", "Emoji glyph").Required().String()
	detectCategory = detectEmojiCmd.Flag("category", "Palette category").Default("all").String()
	detectCamCmd   = detectCmd.Command("camera", "Classify a camera frame")
	historyCmd     = app.Command("history", "Show the session mood history")
	paletteCmd     = app.Command("palette", "Show the emoji palette")
	genresCmd      = app.Command("genres", "List catalog genres")
	recommendCmd   = app.Command("recommend", "Recommend tracks for the latest mood")
	recommendGenre = recommendCmd.Flag("genre", "Genre filter (repeatable)").Strings()

	// playback
	playCmd         = app.Command("play", "Play a track")
	playTrack       = playCmd.Arg("track-id", "Track ID").Required().String()
	playRecsCmd     = app.Command("play-recommendations", "Queue and play the recommendations")
	playRecsStart   = playRecsCmd.Arg("track-id", "Track to start with").String()
	playPlaylistCmd = app.Command("play-playlist", "Queue and play a playlist")
	playPlaylistID  = playPlaylistCmd.Arg("playlist-id", "Playlist ID").Required().String()
	pauseCmd        = app.Command("pause", "Pause playback")
	resumeCmd       = app.Command("resume", "Resume playback")
	nextCmd         = app.Command("next", "Skip to the next track")
	prevCmd         = app.Command("prev", "Go to the previous track")
	stopCmd         = app.Command("stop", "Stop playback")
	stateCmd        = app.Command("state", "Show the playback state")
	seekCmd         = app.Command("seek", "Seek within the current track")
	seekSeconds     = seekCmd.Arg("seconds", "Position in seconds").Required().Float64()
	volumeCmd       = app.Command("volume", "Set the volume")
	volumeLevel     = volumeCmd.Arg("level", "Volume 0-100").Required().Int()
	dequeueCmd      = app.Command("dequeue", "Remove a track from the queue")
	dequeueTrack    = dequeueCmd.Arg("track-id", "Track ID").Required().String()

	// playlists
	playlistCmd         = app.Command("playlist", "Manage playlists")
	plCreateCmd         = playlistCmd.Command("create", "Save a playlist (default: the recommendations for the latest mood)")
	plCreateName        = plCreateCmd.Arg("name", "Playlist name").Required().String()
	plCreateDescription = plCreateCmd.Flag("description", "Description").String()
	plCreateMood        = plCreateCmd.Flag("mood", "Mood label (default: latest detected mood)").String()
	plCreateTracks      = plCreateCmd.Flag("track", "Track ID (repeatable)").Strings()
	plListCmd           = playlistCmd.Command("list", "List playlists")
	plListMood          = plListCmd.Flag("mood", "Mood filter").String()
	plListSearch        = plListCmd.Flag("search", "Search by name or mood").String()
	plListSort          = plListCmd.Flag("sort", "recent, name, trackCount or duration").Default("recent").String()
	plShowCmd           = playlistCmd.Command("show", "Show a playlist")
	plShowID            = plShowCmd.Arg("id", "Playlist ID").Required().String()
	plRenameCmd         = playlistCmd.Command("rename", "Rename a playlist")
	plRenameID          = plRenameCmd.Arg("id", "Playlist ID").Required().String()
	plRenameName        = plRenameCmd.Arg("name", "New name").Required().String()
	plDescribeCmd       = playlistCmd.Command("describe", "Set a playlist description")
	plDescribeID        = plDescribeCmd.Arg("id", "Playlist ID").Required().String()
	plDescribeText      = plDescribeCmd.Arg("description", "Description").Required().String()
	plAddCmd            = playlistCmd.Command("add", "Add tracks")
	plAddID             = plAddCmd.Arg("id", "Playlist ID").Required().String()
	plAddTracks         = plAddCmd.Arg("track-ids", "Track IDs").Required().Strings()
	plRemoveCmd         = playlistCmd.Command("remove", "Remove tracks")
	plRemoveID          = plRemoveCmd.Arg("id", "Playlist ID").Required().String()
	plRemoveTracks      = plRemoveCmd.Arg("track-ids", "Track IDs").Required().Strings()
	plReorderCmd        = playlistCmd.Command("reorder", "Move a track")
	plReorderID         = plReorderCmd.Arg("id", "Playlist ID").Required().String()
	plReorderTrack      = plReorderCmd.Arg("track-id", "Track ID").Required().String()
	plReorderIndex      = plReorderCmd.Arg("index", "New index").Required().Int()
	plDeleteCmd         = playlistCmd.Command("delete", "Delete playlists")
	plDeleteIDs         = plDeleteCmd.Arg("ids", "Playlist IDs").Required().Strings()
	plStatsCmd          = playlistCmd.Command("stats", "Show library statistics")

	// exports
	exportCmd        = app.Command("export", "Export playlists")
	exStartCmd       = exportCmd.Command("start", "Start exports")
	exStartTarget    = exStartCmd.Flag("target", "externalService, shareLink, fileM3U or fileJSON").Required().String()
	exStartOptions   = exStartCmd.Flag("option", "Exporter option key=value (repeatable)").StringMap()
	exStartWait      = exStartCmd.Flag("wait", "Wait for the jobs to finish").Bool()
	exStartPlaylists = exStartCmd.Arg("playlist-ids", "Playlist IDs").Required().Strings()
	exWaitCmd        = exportCmd.Command("wait", "Wait for a job")
	exWaitID         = exWaitCmd.Arg("job-id", "Job ID").Required().String()
	exListCmd        = exportCmd.Command("list", "List jobs")
	exListPlaylist   = exListCmd.Arg("playlist-id", "Playlist ID").String()

	// settings and feedback
	settingsCmd      = app.Command("settings", "Manage settings")
	settingsShowCmd  = settingsCmd.Command("show", "Show settings").Default()
	settingsResetCmd = settingsCmd.Command("reset", "Reset settings to defaults")
	settingsCamCmd   = settingsCmd.Command("camera", "Allow or deny facial recognition")
	settingsCamAllow = settingsCamCmd.Arg("allow", "true or false").Required().Bool()
	feedbackCmd      = app.Command("feedback", "Rate a recommended track")
	feedbackTrack    = feedbackCmd.Arg("track-id", "Track ID").Required().String()
	feedbackRating   = feedbackCmd.Arg("rating", "Rating 1-5").Required().Int()
	feedbackComment  = feedbackCmd.Flag("comment", "Comment").String()
	feedbackListCmd  = app.Command("feedback-list", "List submitted feedback")

	watchCmd = app.Command("watch", "Stream session events")
)

type clients struct {
	mood     *moodv1connect.MoodServiceClient
	playback *moodv1connect.PlaybackServiceClient
	playlist *moodv1connect.PlaylistServiceClient
	export   *moodv1connect.ExportServiceClient
	account  *moodv1connect.AccountServiceClient
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	c := &clients{
		mood:     moodv1connect.NewMoodServiceClient(http.DefaultClient, *server),
		playback: moodv1connect.NewPlaybackServiceClient(http.DefaultClient, *server),
		playlist: moodv1connect.NewPlaylistServiceClient(http.DefaultClient, *server),
		export:   moodv1connect.NewExportServiceClient(http.DefaultClient, *server),
		account:  moodv1connect.NewAccountServiceClient(http.DefaultClient, *server),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, c, command); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, c *clients, command string) error {
	switch command {
	case loginCmd.FullCommand():
		res, err := c.account.Login(ctx, *loginEmail, *loginName)
		if err != nil {
			return err
		}
		fmt.Printf("Welcome, %s! (user %s)\n", res.User.DisplayName(), res.User.ID)
	case logoutCmd.FullCommand():
		if err := c.account.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("Signed out.")
	case whoamiCmd.FullCommand():
		res, err := c.account.CurrentUser(ctx)
		if err != nil {
			return err
		}
		return printJSON(res.User)

	case detectTextCmd.FullCommand():
		return detect(ctx, c, &moodv1.DetectMoodRequest{Modality: mood.ModalityText, Text: strings.Join(*detectText, " ")})
	case detectEmojiCmd.FullCommand():
		return detect(ctx, c, &moodv1.DetectMoodRequest{Modality: mood.ModalityEmoji, Emoji: *detectGlyph, Category: *detectCategory})
	case detectCamCmd.FullCommand():
		return detect(ctx, c, &moodv1.DetectMoodRequest{Modality: mood.ModalityCamera})
	case historyCmd.FullCommand():
		res, err := c.mood.GetHistory(ctx)
		if err != nil {
			return err
		}
		for i, s := range res.Entries {
			fmt.Printf("%2d. %s\n", i+1, formatSample(s))
		}
		fmt.Printf("\nDominant mood: %s, average confidence %.0f%%, session %d min\n",
			res.Stats.DominantMood, res.Stats.AverageConfidence*100, res.Stats.DurationMinutes)
	case paletteCmd.FullCommand():
		res, err := c.mood.GetPalette(ctx)
		if err != nil {
			return err
		}
		for _, cat := range res.Categories {
			glyphs := make([]string, len(cat.Emojis))
			for i, e := range cat.Emojis {
				glyphs[i] = e.Glyph + " " + e.Name
			}
			fmt.Printf("%-11s %s\n", cat.Label, strings.Join(glyphs, "  "))
		}
		fmt.Printf("\nModalities: %v\n", res.Modalities)
	case genresCmd.FullCommand():
		res, err := c.mood.ListGenres(ctx)
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(res.Genres, "\n"))
	case recommendCmd.FullCommand():
		res, err := c.mood.Recommend(ctx, &moodv1.RecommendRequest{Genres: *recommendGenre})
		if err != nil {
			return err
		}
		for i, t := range res.Tracks {
			fmt.Printf("%2d. [%s] %s - %s (%s) match=%.0f%%\n",
				i+1, t.Track.ID, t.Track.Artist, t.Track.Title, formatDuration(t.Track.DurationSeconds), t.MoodMatchScore)
		}

	case playCmd.FullCommand():
		return printState(c.playback.Play(ctx, *playTrack))
	case playRecsCmd.FullCommand():
		return printState(c.playback.PlayRecommendations(ctx, *playRecsStart))
	case playPlaylistCmd.FullCommand():
		return printState(c.playback.PlayPlaylist(ctx, *playPlaylistID))
	case pauseCmd.FullCommand():
		return printState(c.playback.Pause(ctx))
	case resumeCmd.FullCommand():
		return printState(c.playback.Resume(ctx))
	case nextCmd.FullCommand():
		return printState(c.playback.Next(ctx))
	case prevCmd.FullCommand():
		return printState(c.playback.Previous(ctx))
	case stopCmd.FullCommand():
		return printState(c.playback.Stop(ctx))
	case stateCmd.FullCommand():
		return printState(c.playback.GetState(ctx))
	case seekCmd.FullCommand():
		return printState(c.playback.Seek(ctx, *seekSeconds))
	case volumeCmd.FullCommand():
		return printState(c.playback.SetVolume(ctx, *volumeLevel))
	case dequeueCmd.FullCommand():
		return printState(c.playback.RemoveFromQueue(ctx, *dequeueTrack))

	case plCreateCmd.FullCommand():
		return printPlaylist(c.playlist.Create(ctx, &moodv1.CreatePlaylistRequest{
			Name:        *plCreateName,
			Description: *plCreateDescription,
			Mood:        mood.Label(*plCreateMood),
			TrackIDs:    *plCreateTracks,
		}))
	case plListCmd.FullCommand():
		res, err := c.playlist.List(ctx, &moodv1.ListPlaylistsRequest{Mood: *plListMood, Search: *plListSearch, Sort: *plListSort})
		if err != nil {
			return err
		}
		if len(res.Playlists) == 0 {
			fmt.Println("No playlists.")
		}
		for _, p := range res.Playlists {
			fmt.Printf("%s  %-30s %-10s %3d tracks %s\n", p.ID, p.Name, p.Mood, p.TrackCount, formatDuration(p.DurationSeconds))
		}
	case plShowCmd.FullCommand():
		return printPlaylist(c.playlist.Get(ctx, *plShowID))
	case plRenameCmd.FullCommand():
		return printPlaylist(c.playlist.Rename(ctx, *plRenameID, *plRenameName))
	case plDescribeCmd.FullCommand():
		return printPlaylist(c.playlist.UpdateDescription(ctx, *plDescribeID, *plDescribeText))
	case plAddCmd.FullCommand():
		return printPlaylist(c.playlist.AddTracks(ctx, *plAddID, *plAddTracks))
	case plRemoveCmd.FullCommand():
		return printPlaylist(c.playlist.RemoveTracks(ctx, *plRemoveID, *plRemoveTracks))
	case plReorderCmd.FullCommand():
		return printPlaylist(c.playlist.Reorder(ctx, *plReorderID, *plReorderTrack, *plReorderIndex))
	case plDeleteCmd.FullCommand():
		res, err := c.playlist.BulkDelete(ctx, *plDeleteIDs)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d playlist(s).\n", res.Deleted)
	case plStatsCmd.FullCommand():
		res, err := c.playlist.Stats(ctx)
		if err != nil {
			return err
		}
		return printJSON(res.Stats)

	case exStartCmd.FullCommand():
		return startExports(ctx, c)
	case exWaitCmd.FullCommand():
		res, err := c.export.WaitExport(ctx, *exWaitID)
		if err != nil {
			return err
		}
		printJob(res.Job)
	case exListCmd.FullCommand():
		res, err := c.export.ListExports(ctx, *exListPlaylist)
		if err != nil {
			return err
		}
		for _, j := range res.Jobs {
			printJob(j)
		}

	case settingsShowCmd.FullCommand():
		res, err := c.account.GetSettings(ctx)
		if err != nil {
			return err
		}
		return printJSON(res.Settings)
	case settingsResetCmd.FullCommand():
		if _, err := c.account.ResetSettings(ctx); err != nil {
			return err
		}
		fmt.Println("Settings reset to defaults.")
	case settingsCamCmd.FullCommand():
		res, err := c.account.GetSettings(ctx)
		if err != nil {
			return err
		}
		res.Settings.Privacy.AllowFacialRecognition = *settingsCamAllow
		if _, err := c.account.SaveSettings(ctx, &moodv1.SettingsRequest{Settings: res.Settings}); err != nil {
			return err
		}
		fmt.Printf("Facial recognition allowed: %v\n", *settingsCamAllow)
	case feedbackCmd.FullCommand():
		res, err := c.account.SubmitFeedback(ctx, &moodv1.SubmitFeedbackRequest{
			TrackID: *feedbackTrack,
			Rating:  *feedbackRating,
			Comment: *feedbackComment,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Thanks! %s rated %d/5 (%s)\n", res.Feedback.TrackID, res.Feedback.Rating, res.Label)
	case feedbackListCmd.FullCommand():
		res, err := c.account.ListFeedback(ctx)
		if err != nil {
			return err
		}
		for _, f := range res.Feedback {
			fmt.Printf("%s  %-10s %d/5 %s\n", f.TrackID, f.Mood, f.Rating, f.Comment)
		}

	case watchCmd.FullCommand():
		return watch(ctx, c)
	}
	return nil
}

func detect(ctx context.Context, c *clients, req *moodv1.DetectMoodRequest) error {
	res, err := c.mood.DetectMood(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Mood: %s\n", formatSample(res.Mood))
	fmt.Printf("Session history: %d sample(s)\n", len(res.History))
	return nil
}

func startExports(ctx context.Context, c *clients) error {
	target, err := domainexport.ParseTarget(*exStartTarget)
	if err != nil {
		return err
	}
	options := make(map[string]any, len(*exStartOptions))
	for k, v := range *exStartOptions {
		options[k] = v
	}

	res, err := c.export.StartBulkExport(ctx, &moodv1.StartBulkExportRequest{
		PlaylistIDs: *exStartPlaylists,
		Target:      target,
		Options:     options,
	})
	if err != nil {
		return err
	}
	for _, job := range res.Jobs {
		if !*exStartWait {
			printJob(job)
			continue
		}
		finished, err := c.export.WaitExport(ctx, job.ID)
		if err != nil {
			return err
		}
		printJob(finished.Job)
	}
	return nil
}

func watch(ctx context.Context, c *clients) error {
	stream, err := c.account.WatchEvents(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()

	fmt.Println("Watching session events. Press Ctrl+C to exit.")
	for stream.Receive() {
		e := stream.Msg()
		payload, _ := json.Marshal(e.Payload)
		fmt.Printf("[%d] %s %s %s\n", e.SequenceNo, e.At, e.Type, payload)
	}
	if ctx.Err() != nil {
		return nil
	}
	return stream.Err()
}

func formatSample(s mood.Sample) string {
	return fmt.Sprintf("%s via %s (%.0f%% confidence) at %s", s.Label, s.Modality, s.Confidence*100, s.CapturedAt.Format("15:04:05"))
}

func formatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func formatState(s playback.State) string {
	switch s {
	case playback.StatePlaying:
		return "▶️  Playing"
	case playback.StatePaused:
		return "⏸  Paused"
	default:
		return "⏹  Idle"
	}
}

func printState(res *moodv1.PlaybackStateResponse, err error) error {
	if err != nil {
		return err
	}
	p := res.Playback
	fmt.Printf("%s", formatState(p.State))
	if p.CurrentTrackID != "" {
		fmt.Printf("  %s  %s / %s", p.CurrentTrackID, formatDuration(int(p.PositionSeconds)), formatDuration(p.DurationSeconds))
	}
	fmt.Printf("  volume=%d\n", p.Volume)
	if len(p.Queue) > 0 {
		fmt.Printf("Queue: %s\n", strings.Join(p.Queue, ", "))
	}
	return nil
}

func printPlaylist(res *moodv1.PlaylistResponse, err error) error {
	if err != nil {
		return err
	}
	p := res.Playlist
	fmt.Printf("Playlist %s\n", p.ID)
	fmt.Printf("  Name: %s\n", p.Name)
	if p.Description != "" {
		fmt.Printf("  Description: %s\n", p.Description)
	}
	fmt.Printf("  Mood: %s\n", p.Mood)
	fmt.Printf("  Tracks (%d, %s): %s\n", p.TrackCount, formatDuration(p.DurationSeconds), strings.Join(p.Tracks, ", "))
	for _, t := range domainexport.Targets() {
		if p.IsExported(t) {
			fmt.Printf("  Exported to %s\n", t)
		}
	}
	return nil
}

func printJob(j *domainexport.Job) {
	fmt.Printf("Job %s  playlist=%s target=%s status=%s", j.ID, j.PlaylistID, j.Target, j.Status)
	switch {
	case j.Error != "":
		fmt.Printf(" error=%q", j.Error)
	case j.Result != nil && j.Result.URL != "":
		fmt.Printf(" url=%s", j.Result.URL)
	case j.Result != nil:
		fmt.Printf(" %s (%d bytes)", j.Result.ContentType, len(j.Result.Content))
	}
	fmt.Println()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
