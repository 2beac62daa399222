package mock_generator

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/channel_utils"
	"time"
)

type Runner struct {
	logger       outbound.LoggerPort
	workerPool   outbound.TaskDispatcher
	lessonReader LessonReader
}

func NewRunner(workerPool outbound.TaskDispatcher, lessonReader LessonReader, logger outbound.LoggerPort) *Runner {
	return &Runner{
		logger:       logger,
		workerPool:   workerPool,
		lessonReader: lessonReader,
	}
}

// Run replays the canned lesson as a stream of slide and speech events, each delayed like a model emitting tokens.
func (r *Runner) Run(ctx context.Context) (<-chan LessonEvent, error) {
	lesson, err := r.lessonReader.Read()
	if err != nil {
		return nil, err
	}
	delay := time.Duration(lesson.DelayMs) * time.Millisecond

	slideEvents := make([]LessonEvent, 0, len(lesson.Slides))
	for _, s := range lesson.Slides {
		slideEvents = append(slideEvents, LessonEvent{Type: SlideEventType, SlideID: idOf(s.ID), Payload: s})
	}
	speechEvents := make([]LessonEvent, 0, len(lesson.Speech))
	for _, s := range lesson.Speech {
		speechEvents = append(speechEvents, LessonEvent{Type: SpeechEventType, SlideID: idOf(s.SlideID), Payload: s})
	}

	slideCh, err := r.streamWithDelay(ctx, slideEvents, delay)
	if err != nil {
		return nil, err
	}
	speechCh, err := r.streamWithDelay(ctx, speechEvents, delay)
	if err != nil {
		return nil, err
	}
	return channel_utils.MergeChannels(ctx, r.workerPool, slideCh, speechCh)
}

func (r *Runner) streamWithDelay(ctx context.Context, events []LessonEvent, delay time.Duration) (<-chan LessonEvent, error) {
	out := make(chan LessonEvent)
	err := r.workerPool.Submit(func() {
		defer close(out)
		for _, e := range events {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	})
	if err != nil {
		close(out)
		return nil, err
	}
	return out, nil
}

func idOf(id *int) int {
	if id == nil {
		return 0
	}
	return *id
}
