package postgres

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE videos (
				id UUID PRIMARY KEY,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				idea JSONB NOT NULL,
				script JSONB NOT NULL,
				generation_task_id TEXT,
				video_url TEXT,
				status VARCHAR(50) NOT NULL CHECK (status IN ('created', 'generating', 'generated', 'completed', 'failed')),
				posted_tiktok BOOLEAN NOT NULL DEFAULT FALSE,
				posted_instagram BOOLEAN NOT NULL DEFAULT FALSE,
				posted_youtube BOOLEAN NOT NULL DEFAULT FALSE,
				error TEXT
			);

			CREATE INDEX idx_videos_status ON videos(status);
			CREATE INDEX idx_videos_created_at ON videos(created_at);

			CREATE TABLE workflow_runs (
				id UUID PRIMARY KEY,
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE,
				status VARCHAR(50) NOT NULL CHECK (status IN ('started', 'completed', 'failed')),
				video_id UUID,
				error TEXT
			);

			CREATE INDEX idx_workflow_runs_started_at ON workflow_runs(started_at);
			CREATE INDEX idx_workflow_runs_status ON workflow_runs(status);

			CREATE TABLE workflows (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL UNIQUE,
				description TEXT,
				kind VARCHAR(50) NOT NULL,
				config JSONB NOT NULL DEFAULT '{}',
				schedule TEXT,
				status VARCHAR(50) NOT NULL CHECK (status IN ('active', 'paused', 'archived')),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				last_run_at TIMESTAMP WITH TIME ZONE,
				total_runs INT NOT NULL DEFAULT 0,
				successful_runs INT NOT NULL DEFAULT 0,
				failed_runs INT NOT NULL DEFAULT 0
			);

			CREATE INDEX idx_workflows_status ON workflows(status);

			CREATE TABLE workflow_executions (
				id UUID PRIMARY KEY,
				workflow_id UUID NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE,
				status VARCHAR(50) NOT NULL,
				result JSONB,
				error TEXT
			);

			CREATE INDEX idx_workflow_executions_workflow_id ON workflow_executions(workflow_id);

			CREATE TABLE credentials (
				service VARCHAR(255) PRIMARY KEY,
				encrypted_key TEXT NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE TABLE logs (
				id UUID PRIMARY KEY,
				timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
				level VARCHAR(20) NOT NULL,
				message TEXT NOT NULL,
				details JSONB
			);

			CREATE INDEX idx_logs_timestamp ON logs(timestamp);
			CREATE INDEX idx_logs_level ON logs(level);

			CREATE TABLE conversations (
				id UUID PRIMARY KEY,
				session_id VARCHAR(255) NOT NULL,
				role VARCHAR(20) NOT NULL,
				content TEXT NOT NULL,
				context JSONB,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_conversations_session_id ON conversations(session_id);
		`,
	}
}
