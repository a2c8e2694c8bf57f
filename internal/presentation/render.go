package presentation

import (
	"bytes"
	"html/template"
	"io"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <meta name="reel-auth-state" content="{{.Auth}}" />
    <title>Viral Reel Architect</title>
    <style>
      body { margin: 0; font-family: ui-sans-serif, system-ui, sans-serif; background: #0b1020; color: #e9edf7; }
      .app { display: grid; grid-template-columns: 280px 1fr; min-height: 100vh; }
      .sidebar { border-right: 1px solid rgba(255,255,255,0.1); padding: 16px; }
      .main { padding: 24px; max-width: 960px; }
      .history-item { padding: 8px; border-radius: 8px; cursor: pointer; display: flex; justify-content: space-between; gap: 8px; }
      .history-item.active, .history-item:hover { background: rgba(122,162,255,0.15); }
      .tag { color: #fbbf24; font-weight: 600; }
      .error { color: #fb7185; }
      .segment { border: 1px solid rgba(255,255,255,0.1); border-radius: 12px; padding: 12px; margin: 12px 0; }
      input, textarea { width: 100%; margin-bottom: 8px; }
    </style>
  </head>
  <body>
    <div class="app">
      <aside class="sidebar">
        <h3>History</h3>
        <div id="auth-error" hidden>
          <p class="error"></p>
          <button id="signin-retry">Retry sign-in</button>
        </div>
        <div id="history">{{template "history" .History}}</div>
      </aside>
      <main class="main">
        <h1>Viral Reel Architect</h1>
        <form id="generate">
          <input id="title" name="title" placeholder="Video title" value="{{.Title}}" />
          <textarea id="description" name="description" placeholder="What is the video about?">{{.Description}}</textarea>
          <button id="generate-btn" type="submit"{{if not .CanGenerate}} disabled{{end}}>{{if .Loading}}Generating...{{else}}Generate Script{{end}}</button>
        </form>
        {{with .Error}}<p class="error" id="error">{{.}}</p>{{end}}
        {{with .Result}}
        <section id="result">
          <h2>{{.TitleSuggestion}}</h2>
          <p><strong>Hook strategy:</strong> {{.HookStrategy}}</p>
          <div class="caption">
            <h4>Instagram</h4><p>{{.CopyInstagram.Text}}</p>
            <button class="copy" data-key="{{.CopyInstagram.Key}}" data-text="{{.CopyInstagram.Text}}">{{if .CopyInstagram.Copied}}Copied!{{else}}Copy{{end}}</button>
          </div>
          <div class="caption">
            <h4>YouTube Shorts</h4><p>{{.CopyYoutube.Text}}</p>
            <button class="copy" data-key="{{.CopyYoutube.Key}}" data-text="{{.CopyYoutube.Text}}">{{if .CopyYoutube.Copied}}Copied!{{else}}Copy{{end}}</button>
          </div>
          {{range .Segments}}
          <div class="segment" data-index="{{.Index}}">
            <div><strong>{{.Time}}</strong> {{.SectionType}}</div>
            <p>{{.VisualPrompt}}</p>
            <button class="copy" data-key="{{.CopyVisual.Key}}" data-text="{{.CopyVisual.Text}}">{{if .CopyVisual.Copied}}Copied!{{else}}Copy Prompt{{end}}</button>
            <p><em>{{.TextOverlay}}</em></p>
            <p class="audio">{{range .Audio}}{{if eq .Kind.String "tag"}}<span class="tag">{{.Value}}</span>{{else}}<span>{{.Value}}</span>{{end}}{{end}}</p>
            <button class="copy" data-key="{{.CopyAudio.Key}}" data-text="{{.CopyAudio.Text}}">{{if .CopyAudio.Copied}}Copied!{{else}}Copy{{end}}</button>
          </div>
          {{end}}
          <button id="reset">Create Another Script</button>
        </section>
        {{end}}
      </main>
    </div>
    <script>
      const api = "/api/v1";
      const post = (path, body) => fetch(api + path, {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: body ? JSON.stringify(body) : undefined,
      });

      const form = document.getElementById("generate");
      const titleEl = document.getElementById("title");
      const descEl = document.getElementById("description");
      const btn = document.getElementById("generate-btn");
      const syncButton = () => { btn.disabled = !titleEl.value.trim() || !descEl.value.trim(); };
      titleEl.addEventListener("input", syncButton);
      descEl.addEventListener("input", syncButton);
      form.addEventListener("submit", async (e) => {
        e.preventDefault();
        btn.disabled = true;
        btn.textContent = "Generating...";
        await post("/generate", { title: titleEl.value, description: descEl.value });
        window.location.reload();
      });

      document.querySelectorAll("button.copy").forEach((b) => {
        const label = b.textContent;
        b.addEventListener("click", async () => {
          await navigator.clipboard.writeText(b.dataset.text);
          post("/copy/" + encodeURIComponent(b.dataset.key));
          b.textContent = "Copied!";
          setTimeout(() => { b.textContent = label === "Copied!" ? "Copy" : label; }, 2000);
        });
      });

      const reset = document.getElementById("reset");
      if (reset) {
        reset.addEventListener("click", async () => { await post("/reset"); window.location.reload(); });
      }

      const list = document.getElementById("history");
      list.addEventListener("click", async (e) => {
        const del = e.target.closest("button.delete");
        if (del) {
          e.stopPropagation();
          const res = await fetch(api + "/history/" + encodeURIComponent(del.dataset.id), { method: "DELETE" });
          if (res.ok) {
            del.closest(".history-item").remove();
          }
          return;
        }
        const item = e.target.closest(".history-item");
        if (item) {
          await post("/history/" + encodeURIComponent(item.dataset.id) + "/load");
          window.location.reload();
        }
      });

      const sleep = (ms) => new Promise((resolve) => setTimeout(resolve, ms));
      const authError = document.getElementById("auth-error");
      const showAuthError = (message) => {
        authError.querySelector("p").textContent = message;
        authError.hidden = false;
      };

      // signIn resolves true once the session is authenticated. A failed
      // sign-in is shown with a retry button and resolves false.
      let authState = document.querySelector('meta[name="reel-auth-state"]').content;
      const signIn = async () => {
        authError.hidden = true;
        try {
          while (authState !== "authenticated") {
            if (authState !== "authenticating") {
              const res = await post("/session/signin");
              if (res.ok) {
                authState = "authenticated";
                break;
              }
              if (res.status !== 409) {
                authState = "unauthenticated";
                showAuthError((await res.json()).message);
                return false;
              }
            }
            await sleep(500);
            const info = await fetch(api + "/session").then((r) => r.json());
            authState = info.data.state;
          }
          return true;
        } catch (err) {
          showAuthError("Sign-in failed: " + err);
          return false;
        }
      };

      // The stream only opens after sign-in. A refused or dropped stream is
      // reopened after checking the session again.
      let stream = null;
      const openStream = () => {
        stream = new EventSource(api + "/history/stream");
        stream.addEventListener("history-html", (e) => { list.innerHTML = e.data; });
        stream.addEventListener("error", () => {
          if (stream.readyState === EventSource.CLOSED) {
            stream = null;
            setTimeout(connect, 2000);
          }
        });
      };
      const connect = async () => {
        if (stream) {
          return;
        }
        const info = await fetch(api + "/session").then((r) => r.json()).catch(() => null);
        if (info) {
          authState = info.data.state;
        }
        if (await signIn()) {
          openStream();
        }
      };
      document.getElementById("signin-retry").addEventListener("click", connect);
      connect();
    </script>
  </body>
</html>
{{define "history"}}{{range .}}
<div class="history-item{{if .Active}} active{{end}}" data-id="{{.ID}}">
  <div><div>{{.Title}}</div><small>{{.CreatedAt}}</small></div>
  <button class="delete" data-id="{{.ID}}">Delete</button>
</div>
{{else}}
<p id="history-empty">No saved scripts yet.</p>
{{end}}{{end}}`))

// Render writes the page for v.
func Render(w io.Writer, v View) error {
	return pageTmpl.Execute(w, v)
}

// RenderHistory renders the sidebar rows alone, exactly as the page renders them.
func RenderHistory(items []HistoryItem) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTmpl.ExecuteTemplate(&buf, "history", items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderBytes renders into memory so a template error never leaves a half-written response.
func RenderBytes(v View) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
