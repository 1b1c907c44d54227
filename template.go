package main

import (
	"html/template"
	"net/http"
)

type pageData struct {
	Service     string
	OutName     string
	ErrorTTLMS  int64
	EmptyMsg    string
	FallbackMsg string
}

func (a *app) renderIndex(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = page.Execute(w, pageData{
		Service:     a.merge.Base(),
		OutName:     mergedName,
		ErrorTTLMS:  errorBannerTTL.Milliseconds(),
		EmptyMsg:    msgNoFiles,
		FallbackMsg: msgMergeFailed,
	})
}

var page = template.Must(template.New("index").Parse(`
<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>PDF Merger</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <style>
    :root { --border:#eee; --muted:#666; }
    * { box-sizing:border-box; }
    body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 24px; max-width: 720px; }
    h1 { margin:0 0 16px 0; font-size:22px; }
    .muted { color:var(--muted); font-size:12px; }
    .box { border:1px solid var(--border); border-radius:12px; padding:12px; margin-bottom:14px; }
    .row { display:flex; gap:8px; align-items:center; }
    .btn { padding:10px 14px; border:0; background:#111; color:#fff; border-radius:10px; cursor:pointer; }
    .btn:disabled { background:#999; cursor:default; }
    .btn.ghost { background:#fff; color:#111; border:1px solid #ddd; }
    .zone { border:2px dashed #ccc; border-radius:12px; padding:36px 16px; text-align:center; cursor:pointer; }
    .zone.drag { border-color:#111; background:#fafafa; }
    .banner { display:none; background:#fdecea; color:#b3261e; border:1px solid #f5c6c2; border-radius:10px; padding:10px 12px; margin-bottom:12px; font-size:14px; }
    .banner.show { display:block; }
    .file { display:flex; gap:10px; align-items:center; padding:8px 4px; border-bottom:1px solid var(--border); }
    .file:last-child { border-bottom:0; }
    .file .name { flex:1; min-width:0; font-size:14px; overflow:hidden; text-overflow:ellipsis; white-space:nowrap; }
    .file .idx { width:24px; text-align:right; color:var(--muted); font-size:12px; }
    .rm { border:0; background:none; color:#b3261e; font-size:16px; cursor:pointer; padding:2px 6px; }
    #status { font-size:13px; color:var(--muted); }
  </style>
</head>
<body>
  <h1>PDF Merger</h1>

  <div id="banner" class="banner"></div>

  <div id="zone" class="zone">
    <div>Drop PDF files here or click to browse</div>
    <div class="muted" style="margin-top:6px">PDF only, up to 16 MB each. Files merge in list order.</div>
  </div>
  <input id="picker" type="file" accept="application/pdf" multiple hidden>

  <div class="box">
    <div class="row" style="margin-bottom:6px">
      <div style="flex:1; font-weight:600; font-size:14px">Files <span id="count" class="muted"></span></div>
      <button id="clearBtn" class="btn ghost" type="button">Clear all</button>
    </div>
    <div id="list"></div>
  </div>

  <div class="row">
    <button id="mergeBtn" class="btn">Merge PDFs</button>
    <span id="status"></span>
  </div>

  <div class="muted" style="margin-top:14px">Merging via {{.Service}}</div>

<script>
  const ERROR_TTL_MS = {{.ErrorTTLMS}};
  const OUT_NAME = "{{.OutName}}";
  const EMPTY_MSG = "{{.EmptyMsg}}";
  const FALLBACK_MSG = "{{.FallbackMsg}}";

  const zone = document.getElementById('zone');
  const picker = document.getElementById('picker');
  const listEl = document.getElementById('list');
  const countEl = document.getElementById('count');
  const banner = document.getElementById('banner');
  const statusEl = document.getElementById('status');
  const mergeBtn = document.getElementById('mergeBtn');

  let files = [];
  let merging = false;
  let bannerTimer = null;

  function showError(msg) {
    banner.textContent = msg;
    banner.classList.add('show');
    if (bannerTimer) clearTimeout(bannerTimer);
    bannerTimer = setTimeout(() => {
      banner.classList.remove('show');
      banner.textContent = '';
      bannerTimer = null;
    }, ERROR_TTL_MS);
  }

  function clearError() {
    if (bannerTimer) { clearTimeout(bannerTimer); bannerTimer = null; }
    banner.classList.remove('show');
    banner.textContent = '';
  }

  function fmtSize(n) {
    if (n < 1024) return n + ' B';
    if (n < 1048576) return (n/1024).toFixed(1) + ' KB';
    return (n/1048576).toFixed(1) + ' MB';
  }

  function render(next) {
    files = next || [];
    listEl.textContent = '';
    files.forEach((f, i) => {
      const row = document.createElement('div');
      row.className = 'file';
      const idx = document.createElement('span');
      idx.className = 'idx';
      idx.textContent = (i + 1) + '.';
      const name = document.createElement('span');
      name.className = 'name';
      name.textContent = f.name;
      const size = document.createElement('span');
      size.className = 'muted';
      size.textContent = fmtSize(f.size);
      const rm = document.createElement('button');
      rm.className = 'rm';
      rm.type = 'button';
      rm.textContent = '×';
      rm.title = 'Remove';
      rm.addEventListener('click', () => removeAt(i));
      row.append(idx, name, size, rm);
      listEl.appendChild(row);
    });
    countEl.textContent = files.length === 1 ? '1 file' : files.length + ' files';
  }

  async function refresh() {
    const resp = await fetch('/api/files');
    const data = await resp.json();
    render(data.files);
  }

  async function addFiles(picked) {
    if (!picked || picked.length === 0) return;
    const form = new FormData();
    Array.from(picked).forEach(f => form.append('files', f, f.name));
    const resp = await fetch('/api/files/add', { method: 'POST', body: form });
    const data = await resp.json();
    if (data.error) showError(data.error);
    render(data.files);
  }

  async function removeAt(i) {
    const resp = await fetch('/api/files/remove', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({ index: i })
    });
    const data = await resp.json();
    render(data.files);
  }

  async function clearAll() {
    const resp = await fetch('/api/files/clear', { method: 'POST' });
    const data = await resp.json();
    render(data.files);
  }

  async function mergeAll() {
    if (merging) return;
    if (files.length === 0) { showError(EMPTY_MSG); return; }
    merging = true;
    mergeBtn.disabled = true;
    clearError();
    statusEl.textContent = 'Merging...';
    try {
      const resp = await fetch('/api/merge', { method: 'POST' });
      if (!resp.ok) {
        let msg = FALLBACK_MSG;
        try {
          const data = await resp.json();
          if (data && data.error) msg = data.error;
        } catch (e) {}
        showError(msg);
        return;
      }
      const blob = await resp.blob();
      const url = URL.createObjectURL(blob);
      try {
        const a = document.createElement('a');
        a.href = url;
        a.download = OUT_NAME;
        document.body.appendChild(a);
        a.click();
        a.remove();
      } finally {
        URL.revokeObjectURL(url);
      }
      await refresh();
    } catch (e) {
      showError(FALLBACK_MSG);
    } finally {
      merging = false;
      mergeBtn.disabled = false;
      statusEl.textContent = '';
    }
  }

  zone.addEventListener('click', () => picker.click());
  picker.addEventListener('change', () => { addFiles(picker.files); picker.value = ''; });

  zone.addEventListener('dragenter', e => { e.preventDefault(); zone.classList.add('drag'); });
  zone.addEventListener('dragover', e => { e.preventDefault(); zone.classList.add('drag'); });
  zone.addEventListener('dragleave', e => {
    // Ignore leave events fired when moving over child nodes.
    if (!zone.contains(e.relatedTarget)) zone.classList.remove('drag');
  });
  zone.addEventListener('drop', e => {
    e.preventDefault();
    zone.classList.remove('drag');
    addFiles(e.dataTransfer.files);
  });

  document.getElementById('clearBtn').addEventListener('click', clearAll);
  mergeBtn.addEventListener('click', mergeAll);

  refresh();
</script>
</body>
</html>
`))
