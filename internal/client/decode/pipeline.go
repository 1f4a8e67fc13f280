package decode

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Pipeline owns the codec's stream and local contexts for one playback
// session and runs decode jobs in the background, keyed by a
// caller-chosen job id. Purge is the single synchronous fence that
// cancels in-flight work and releases every context and cached result.
type Pipeline struct {
	codec  Codec
	logger *slog.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	streamFuture *future[StreamContext]
	streamCtx    StreamContext

	localFuture *future[LocalContext]
	localCtx    LocalContext

	jobs map[int]*future[DecodedFrames]
}

// New constructs a Pipeline over codec. Callers typically hold two
// Pipelines, one for video and one for audio.
func New(codec Codec, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		codec:  codec,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[int]*future[DecodedFrames]),
	}
}

// StartStreamContextInitialization launches stream-context init in the
// background using sample (the first encoded piece) as a probe.
func (p *Pipeline) StartStreamContextInitialization(sample []byte) {
	p.mu.Lock()
	genCtx := p.ctx
	fut := newFuture[StreamContext]()
	p.streamFuture = fut
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		sc, err := p.codec.OpenStreamContext(genCtx, sample)
		p.mu.Lock()
		if p.ctx == genCtx && err == nil {
			p.streamCtx = sc
		} else if err == nil && sc != nil {
			_ = sc.Close() // purged before init finished; don't leak it
		}
		p.mu.Unlock()
		fut.resolve(sc, err)
	}()
}

// GetStreamContextNow blocks until initialization completes or fails.
func (p *Pipeline) GetStreamContextNow(ctx context.Context) (StreamContext, error) {
	p.mu.Lock()
	fut := p.streamFuture
	p.mu.Unlock()
	if fut == nil {
		return nil, fmt.Errorf("stream context initialization not started")
	}
	return fut.wait(ctx)
}

// GetStreamContextInitializationException returns the init error, if
// resolved and failed; nil otherwise.
func (p *Pipeline) GetStreamContextInitializationException() error {
	p.mu.Lock()
	fut := p.streamFuture
	p.mu.Unlock()
	if fut == nil {
		return nil
	}
	_, err, resolved := fut.peek()
	if !resolved {
		return nil
	}
	return err
}

// GetStreamContext returns the cached context non-blockingly; nil if
// never initialized or purged.
func (p *Pipeline) GetStreamContext() StreamContext {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streamCtx
}

// StartLocalContextInitialization mirrors StartStreamContextInitialization,
// deriving from sc.
func (p *Pipeline) StartLocalContextInitialization(sample []byte, sc StreamContext) {
	p.mu.Lock()
	genCtx := p.ctx
	fut := newFuture[LocalContext]()
	p.localFuture = fut
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		lc, err := p.codec.OpenLocalContext(genCtx, sc, sample)
		p.mu.Lock()
		if p.ctx == genCtx && err == nil {
			p.localCtx = lc
		} else if err == nil && lc != nil {
			_ = lc.Close()
		}
		p.mu.Unlock()
		fut.resolve(lc, err)
	}()
}

// GetLocalContextNow blocks until initialization completes or fails.
func (p *Pipeline) GetLocalContextNow(ctx context.Context) (LocalContext, error) {
	p.mu.Lock()
	fut := p.localFuture
	p.mu.Unlock()
	if fut == nil {
		return nil, fmt.Errorf("local context initialization not started")
	}
	return fut.wait(ctx)
}

// GetLocalContextInitializationException returns the init error, if any.
func (p *Pipeline) GetLocalContextInitializationException() error {
	p.mu.Lock()
	fut := p.localFuture
	p.mu.Unlock()
	if fut == nil {
		return nil
	}
	_, err, resolved := fut.peek()
	if !resolved {
		return nil
	}
	return err
}

// GetLocalContext returns the cached context non-blockingly; nil if
// never initialized or purged.
func (p *Pipeline) GetLocalContext() LocalContext {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.localCtx
}

// StartDecodingOfAllFrames decodes every frame in one piece under job id.
func (p *Pipeline) StartDecodingOfAllFrames(jobID int, sc StreamContext, piece []byte) {
	p.startJob(jobID, func(ctx context.Context) (DecodedFrames, error) {
		frames, err := p.codec.DecodeAllFrames(ctx, sc, piece)
		if err != nil {
			return DecodedFrames{}, err
		}
		return DecodedFrames{Offset: 0, Frames: frames}, nil
	})
}

// StartDecodingOfNFrames decodes count frames of piece starting at
// in-piece frame index startFrame, under job id.
func (p *Pipeline) StartDecodingOfNFrames(jobID int, lc LocalContext, piece []byte, startFrame, count int) {
	p.startJob(jobID, func(ctx context.Context) (DecodedFrames, error) {
		offset, frames, err := p.codec.DecodeNFrames(ctx, lc, piece, startFrame, count)
		if err != nil {
			return DecodedFrames{}, err
		}
		return DecodedFrames{Offset: offset, Frames: frames}, nil
	})
}

func (p *Pipeline) startJob(jobID int, fn func(ctx context.Context) (DecodedFrames, error)) {
	p.mu.Lock()
	genCtx := p.ctx
	fut := newFuture[DecodedFrames]()
	p.jobs[jobID] = fut
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		result, err := fn(genCtx)
		fut.resolve(result, err)
	}()
}

// GetDecodedFramesNow blocks until job jobID completes.
func (p *Pipeline) GetDecodedFramesNow(ctx context.Context, jobID int) (DecodedFrames, error) {
	p.mu.Lock()
	fut, ok := p.jobs[jobID]
	p.mu.Unlock()
	if !ok {
		return DecodedFrames{}, fmt.Errorf("no decode job %d", jobID)
	}
	return fut.wait(ctx)
}

// GetDecodedFrames returns cached frames non-blockingly; ok is false if
// the job is unknown, still running, or failed.
func (p *Pipeline) GetDecodedFrames(jobID int) (frames DecodedFrames, ok bool) {
	p.mu.Lock()
	fut, exists := p.jobs[jobID]
	p.mu.Unlock()
	if !exists {
		return DecodedFrames{}, false
	}
	val, err, resolved := fut.peek()
	if !resolved || err != nil {
		return DecodedFrames{}, false
	}
	return val, true
}

// GetDecodingException returns the error for job jobID, if resolved and
// failed; nil otherwise (including when the job is still running).
func (p *Pipeline) GetDecodingException(jobID int) error {
	p.mu.Lock()
	fut, ok := p.jobs[jobID]
	p.mu.Unlock()
	if !ok {
		return nil
	}
	_, err, resolved := fut.peek()
	if !resolved {
		return nil
	}
	return err
}

// FreeDecodedFrames releases job jobID's cached frames. It never
// affects any other job's slot.
func (p *Pipeline) FreeDecodedFrames(jobID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.jobs, jobID)
}

// Purge cancels in-flight jobs, closes the LocalContext and
// StreamContext, and clears all cached state. It is a synchronous
// fence: callers observe no further pre-purge results after it
// returns.
func (p *Pipeline) Purge() {
	p.mu.Lock()
	cancel := p.cancel
	streamCtx := p.streamCtx
	localCtx := p.localCtx
	p.mu.Unlock()

	cancel()
	p.wg.Wait()

	p.mu.Lock()
	newCtx, newCancel := context.WithCancel(context.Background())
	p.ctx = newCtx
	p.cancel = newCancel
	p.streamFuture = nil
	p.streamCtx = nil
	p.localFuture = nil
	p.localCtx = nil
	p.jobs = make(map[int]*future[DecodedFrames])
	p.mu.Unlock()

	if localCtx != nil {
		_ = localCtx.Close()
	}
	if streamCtx != nil {
		_ = streamCtx.Close()
	}
}
